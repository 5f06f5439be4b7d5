package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
)

// CreateGroup implements storage.GroupStore.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(group).Error)
}

// GetGroupByID implements storage.GroupStore.
func (s *Store) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := s.conn(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

// GetGroupByName implements storage.GroupStore.
func (s *Store) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	if err := s.conn(ctx).Where("group_name = ?", name).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

// ListGroups implements storage.GroupStore.
func (s *Store) ListGroups(ctx context.Context, page pagination.PageRequest) ([]models.Group, int64, error) {
	base := s.conn(ctx).Model(&models.Group{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var groups []models.Group
	if err := base.Order("created_at ASC, id ASC").Scopes(page.Scope()).Find(&groups).Error; err != nil {
		return nil, 0, translate(err)
	}
	return groups, total, nil
}

// CreateMember implements storage.GroupStore.
func (s *Store) CreateMember(ctx context.Context, member *models.GroupMember) error {
	return translate(s.conn(ctx).Create(member).Error)
}

// FindMemberByName implements storage.GroupStore.
func (s *Store) FindMemberByName(ctx context.Context, groupID, displayName string) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.conn(ctx).
		Where("group_id = ? AND display_name = ?", groupID, displayName).
		First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// GetMemberForUpdate implements storage.GroupStore.
func (s *Store) GetMemberForUpdate(ctx context.Context, groupID, memberID string) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.forUpdate(ctx).
		Where("id = ? AND group_id = ?", memberID, groupID).
		First(&member).Error
	if err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// UpdateMemberSpents implements storage.GroupStore.
func (s *Store) UpdateMemberSpents(ctx context.Context, member *models.GroupMember) error {
	return translate(s.conn(ctx).Model(member).Update("spents", member.Spents).Error)
}

// ListMembers implements storage.GroupStore.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := s.conn(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, translate(err)
	}
	return members, nil
}

// FindMemberDataForUpdate implements storage.GroupStore.
func (s *Store) FindMemberDataForUpdate(ctx context.Context, groupID, memberID, category string) (*models.GroupMemberData, error) {
	var data models.GroupMemberData
	err := s.forUpdate(ctx).
		Where("group_member_id = ? AND group_id = ? AND category = ?", memberID, groupID, category).
		First(&data).Error
	if err != nil {
		return nil, translate(err)
	}
	return &data, nil
}

// CreateMemberData implements storage.GroupStore.
func (s *Store) CreateMemberData(ctx context.Context, data *models.GroupMemberData) error {
	return translate(s.conn(ctx).Create(data).Error)
}

// UpdateMemberDataAmount implements storage.GroupStore.
func (s *Store) UpdateMemberDataAmount(ctx context.Context, data *models.GroupMemberData) error {
	return translate(s.conn(ctx).Model(data).Update("amount", data.Amount).Error)
}

// ListMemberDataByMember implements storage.GroupStore.
func (s *Store) ListMemberDataByMember(ctx context.Context, memberID string) ([]models.GroupMemberData, error) {
	var data []models.GroupMemberData
	err := s.conn(ctx).
		Where("group_member_id = ?", memberID).
		Order("created_at ASC, id ASC").
		Find(&data).Error
	if err != nil {
		return nil, translate(err)
	}
	return data, nil
}

// DeleteMemberData implements storage.GroupStore.
func (s *Store) DeleteMemberData(ctx context.Context, groupID, memberID, dataID string) (int64, error) {
	res := s.conn(ctx).
		Where("id = ? AND group_member_id = ? AND group_id = ?", dataID, memberID, groupID).
		Delete(&models.GroupMemberData{})
	return res.RowsAffected, translate(res.Error)
}
