package models

import "github.com/shopspring/decimal"

// Group is a shared ledger joined with a group name and password.
type Group struct {
	Base
	GroupName     string        `gorm:"uniqueIndex;not null" json:"group_name"`
	GroupPassword string        `gorm:"not null" json:"-"`
	Members       []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// GroupMember is a pseudonymous identity inside one group. The display name
// and password together act as the member's credential.
type GroupMember struct {
	Base
	GroupID     string            `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_group_name" json:"group_id"`
	DisplayName string            `gorm:"not null;uniqueIndex:uq_group_members_group_name" json:"name"`
	Password    string            `gorm:"not null" json:"-"`
	Spents      decimal.Decimal   `gorm:"type:numeric(20,2);not null;default:0" json:"spents"`
	Data        []GroupMemberData `gorm:"foreignKey:GroupMemberID" json:"-"`
}

// GroupMemberData is a member's running spend for one category. Unlike
// Expense it keeps no history.
type GroupMemberData struct {
	Base
	GroupMemberID string          `gorm:"type:uuid;not null;uniqueIndex:uq_member_data_member_group_category" json:"group_member"`
	GroupID       string          `gorm:"type:uuid;not null;uniqueIndex:uq_member_data_member_group_category" json:"group_id"`
	Category      string          `gorm:"not null;uniqueIndex:uq_member_data_member_group_category" json:"category"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null;check:amount >= 0" json:"amount"`
}

// TableName matches the migration's table name.
func (GroupMemberData) TableName() string {
	return "group_member_data"
}
