package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"spendbook/internal/auth"
	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/storage"
)

// groupService handles groups and member resolution. Member identity is a
// display name plus password, checked through the PasswordHasher.
type groupService struct {
	store   storage.Store
	hasher  auth.PasswordHasher
	metrics *metrics.Metrics
}

// NewGroupService creates a new GroupServicer. m may be nil.
func NewGroupService(store storage.Store, hasher auth.PasswordHasher, m *metrics.Metrics) GroupServicer {
	return &groupService{store: store, hasher: hasher, metrics: m}
}

// CreateGroup registers a new group with a hashed password.
func (s *groupService) CreateGroup(ctx context.Context, groupName, groupPassword string) (*models.Group, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" || groupPassword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name and password are required")
	}

	_, err := s.store.GetGroupByName(ctx, groupName)
	switch {
	case err == nil:
		return nil, apperrors.ErrDuplicateGroup
	case !errors.Is(err, storage.ErrNotFound):
		return nil, internalErr(err)
	}

	hashed, err := s.hasher.Hash(groupPassword)
	if err != nil {
		return nil, internalErr(err)
	}

	group := &models.Group{GroupName: groupName, GroupPassword: hashed}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateGroup
		}
		return nil, internalErr(err)
	}
	return group, nil
}

// JoinOrCreateMember resolves a join request to an existing member of the
// group, or creates one with zero spents.
func (s *groupService) JoinOrCreateMember(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	memberName := strings.TrimSpace(req.MemberName)
	if memberName == "" || req.MemberPassword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member name and password are required")
	}

	group, err := s.store.GetGroupByName(ctx, strings.TrimSpace(req.GroupName))
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrGroupNotFound)
	}
	if !s.hasher.Compare(group.GroupPassword, req.GroupPassword) {
		return nil, apperrors.ErrBadGroupPassword
	}

	member, err := s.store.FindMemberByName(ctx, group.ID, memberName)
	switch {
	case err == nil:
		if !s.hasher.Compare(member.Password, req.MemberPassword) {
			return nil, apperrors.ErrBadMemberPassword
		}
		s.metrics.MemberJoin(string(JoinRejoined))
		return &JoinResult{Outcome: JoinRejoined, Group: group, Member: member}, nil

	case !errors.Is(err, storage.ErrNotFound):
		return nil, internalErr(err)
	}

	hashed, err := s.hasher.Hash(req.MemberPassword)
	if err != nil {
		return nil, internalErr(err)
	}

	member = &models.GroupMember{
		GroupID:     group.ID,
		DisplayName: memberName,
		Password:    hashed,
		Spents:      decimal.Zero,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateMember, err)
		}
		return nil, internalErr(err)
	}

	s.metrics.MemberJoin(string(JoinCreated))
	logger.Get().Infow("group member created", "group_id", group.ID, "member_id", member.ID)
	return &JoinResult{Outcome: JoinCreated, Group: group, Member: member}, nil
}

// ListGroups returns one page of groups, oldest first.
func (s *groupService) ListGroups(ctx context.Context, page pagination.PageRequest) (*pagination.Page[models.Group], error) {
	page = page.Normalize()
	groups, total, err := s.store.ListGroups(ctx, page)
	if err != nil {
		return nil, internalErr(err)
	}
	result := pagination.NewPage(groups, page, total)
	return &result, nil
}

// ListMembersData returns every member of the group with their category
// totals.
func (s *groupService) ListMembersData(ctx context.Context, groupID string) ([]MemberSummary, error) {
	if _, err := s.store.GetGroupByID(ctx, groupID); err != nil {
		return nil, lookupErr(err, apperrors.ErrGroupNotFound)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, internalErr(err)
	}

	summaries := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		data, err := s.store.ListMemberDataByMember(ctx, m.ID)
		if err != nil {
			return nil, internalErr(err)
		}
		if data == nil {
			data = []models.GroupMemberData{}
		}
		summaries = append(summaries, MemberSummary{
			MemberID:          m.ID,
			MemberName:        m.DisplayName,
			Spents:            m.Spents,
			DataByGroupMember: data,
		})
	}
	return summaries, nil
}
