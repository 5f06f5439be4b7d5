package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/services"
)

// GroupHandler handles groups and membership.
type GroupHandler struct {
	groupService services.GroupServicer
	auditService services.AuditServicer
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService services.GroupServicer, auditService services.AuditServicer) *GroupHandler {
	return &GroupHandler{groupService: groupService, auditService: auditService}
}

// CreateGroupRequest represents the request payload for creating a group.
type CreateGroupRequest struct {
	GroupName     string `json:"groupName" binding:"required,notblank,max=100"`
	GroupPassword string `json:"groupPassword" binding:"required,max=128"`
}

// JoinGroupRequest carries the group and member credentials.
type JoinGroupRequest struct {
	GroupName      string `json:"groupName" binding:"required"`
	GroupPassword  string `json:"groupPassword" binding:"required"`
	MemberName     string `json:"groupMembers" binding:"required,notblank,max=100"`
	MemberPassword string `json:"groupMembersPassword" binding:"required,max=128"`
}

// GroupResponse is returned after creating a group.
type GroupResponse struct {
	Message string        `json:"message"`
	Group   *models.Group `json:"group"`
}

// JoinGroupResponse identifies the member a join resolved to.
type JoinGroupResponse struct {
	Message    string          `json:"message"`
	Outcome    string          `json:"outcome"`
	GroupID    string          `json:"groupId"`
	MemberID   string          `json:"memberId"`
	MemberName string          `json:"memberName"`
	Spents     decimal.Decimal `json:"spents"`
}

// GroupListResponse is one page of groups.
type GroupListResponse struct {
	Message string                        `json:"message"`
	Groups  pagination.Page[models.Group] `json:"groups"`
}

// MembersDataResponse lists each member's spend in a group.
type MembersDataResponse struct {
	Message string                   `json:"message"`
	Members []services.MemberSummary `json:"members"`
}

// CreateGroup creates a group
// @Summary     Create a group
// @Tags        groups
// @Accept      json
// @Produce     json
// @Param       request body CreateGroupRequest true "Group name and password"
// @Success     201 {object} GroupResponse "Group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Group name taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /create-group [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req.GroupName, req.GroupPassword)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{Message: "Group created successfully", Group: group})
}

// JoinGroup joins a group as a new or returning member
// @Summary     Join a group
// @Description Resolve the member by display name within the group, creating it on first join.
// @Tags        groups
// @Accept      json
// @Produce     json
// @Param       request body JoinGroupRequest true "Group and member credentials"
// @Success     201 {object} JoinGroupResponse "Member created"
// @Success     200 {object} JoinGroupResponse "Member rejoined"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Wrong group or member password"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /join-group [post]
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	res, err := h.groupService.JoinOrCreateMember(c.Request.Context(), services.JoinRequest{
		GroupName:      req.GroupName,
		GroupPassword:  req.GroupPassword,
		MemberName:     req.MemberName,
		MemberPassword: req.MemberPassword,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	body := JoinGroupResponse{
		Outcome:    string(res.Outcome),
		GroupID:    res.Group.ID,
		MemberID:   res.Member.ID,
		MemberName: res.Member.DisplayName,
		Spents:     res.Member.Spents,
	}
	if res.Outcome == services.JoinCreated {
		h.auditService.Log(c.Request.Context(), res.Member.ID, services.AuditJoinGroup, "group", res.Group.ID, c.ClientIP(), nil)
		body.Message = "Member added to the group"
		c.JSON(http.StatusCreated, body)
		return
	}
	body.Message = "Member joined the group"
	c.JSON(http.StatusOK, body)
}

// ListGroups lists groups
// @Summary     List groups
// @Tags        groups
// @Produce     json
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page"
// @Success     200 {object} GroupListResponse "Groups"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.groupService.ListGroups(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, GroupListResponse{Message: "Groups fetched successfully", Groups: *result})
}

// ListMembersData lists every member's spend in a group
// @Summary     List members' data
// @Tags        groups
// @Produce     json
// @Param       groupId path string true "Group ID"
// @Success     200 {object} MembersDataResponse "Member spend"
// @Failure     400 {object} ErrorResponse "Invalid group ID"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /{groupId}/members/data [get]
func (h *GroupHandler) ListMembersData(c *gin.Context) {
	groupID, err := parsePathID(c, "groupId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	members, err := h.groupService.ListMembersData(c.Request.Context(), groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MembersDataResponse{Message: "Members data fetched successfully", Members: members})
}
