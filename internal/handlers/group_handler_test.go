package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/services"
)

func setupGroupRouter(handler *GroupHandler) *gin.Engine {
	r := gin.New()
	r.POST("/create-group", handler.CreateGroup)
	r.POST("/join-group", handler.JoinGroup)
	r.GET("/groups", handler.ListGroups)
	r.GET("/:groupId/members/data", handler.ListMembersData)
	return r
}

func testJoinResult(outcome services.JoinOutcome) *services.JoinResult {
	group := &models.Group{GroupName: "flat"}
	group.ID = testGroupID
	member := &models.GroupMember{GroupID: testGroupID, DisplayName: "Ravi"}
	member.ID = testMemberID
	return &services.JoinResult{Outcome: outcome, Group: group, Member: member}
}

func TestGroupHandler_CreateGroup(t *testing.T) {
	t.Run("returns 201 without the password", func(t *testing.T) {
		h := NewGroupHandler(&mockGroupService{
			createGroupFn: func(name, password string) (*models.Group, error) {
				return &models.Group{GroupName: name, GroupPassword: "hashed"}, nil
			},
		}, &mockAuditService{})
		rec := doRequest(setupGroupRouter(h), http.MethodPost, "/create-group", `{"groupName":"flat","groupPassword":"pw"}`)
		assertStatus(t, rec, http.StatusCreated)
		group := parseJSON(t, rec)["group"].(map[string]interface{})
		if group["group_name"] != "flat" {
			t.Errorf("unexpected group: %v", group)
		}
		if _, leaked := group["group_password"]; leaked {
			t.Error("group password must not be serialized")
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		h := NewGroupHandler(&mockGroupService{
			createGroupFn: func(string, string) (*models.Group, error) { return nil, apperrors.ErrDuplicateGroup },
		}, &mockAuditService{})
		rec := doRequest(setupGroupRouter(h), http.MethodPost, "/create-group", `{"groupName":"flat","groupPassword":"pw"}`)
		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_GROUP")
	})

	t.Run("returns 400 without a password", func(t *testing.T) {
		h := NewGroupHandler(&mockGroupService{}, &mockAuditService{})
		rec := doRequest(setupGroupRouter(h), http.MethodPost, "/create-group", `{"groupName":"flat"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestGroupHandler_JoinGroup(t *testing.T) {
	body := `{"groupName":"flat","groupPassword":"pw","groupMembers":"Ravi","groupMembersPassword":"mpw"}`

	t.Run("returns 201 and audits a new member", func(t *testing.T) {
		var got services.JoinRequest
		audit := &mockAuditService{}
		h := NewGroupHandler(&mockGroupService{
			joinOrCreateMemberFn: func(req services.JoinRequest) (*services.JoinResult, error) {
				got = req
				return testJoinResult(services.JoinCreated), nil
			},
		}, audit)
		rec := doRequest(setupGroupRouter(h), http.MethodPost, "/join-group", body)
		assertStatus(t, rec, http.StatusCreated)
		if got.MemberName != "Ravi" || got.MemberPassword != "mpw" || got.GroupPassword != "pw" {
			t.Errorf("unexpected join request: %+v", got)
		}
		res := parseJSON(t, rec)
		if res["memberId"] != testMemberID || res["groupId"] != testGroupID || res["outcome"] != "created" {
			t.Errorf("unexpected body: %v", res)
		}
		if got := audit.logged(); len(got) != 1 || got[0] != services.AuditJoinGroup {
			t.Errorf("unexpected audit entries: %v", got)
		}
	})

	t.Run("returns 200 for a returning member", func(t *testing.T) {
		audit := &mockAuditService{}
		h := NewGroupHandler(&mockGroupService{
			joinOrCreateMemberFn: func(services.JoinRequest) (*services.JoinResult, error) {
				res := testJoinResult(services.JoinRejoined)
				res.Member.Spents = decimal.RequireFromString("42.50")
				return res, nil
			},
		}, audit)
		rec := doRequest(setupGroupRouter(h), http.MethodPost, "/join-group", body)
		assertStatus(t, rec, http.StatusOK)
		if got := parseJSON(t, rec)["spents"]; got != 42.5 {
			t.Errorf("expected existing spents 42.5, got %v", got)
		}
		if len(audit.logged()) != 0 {
			t.Error("rejoining must not be audited")
		}
	})

	t.Run("returns 400 without groupMembers", func(t *testing.T) {
		h := NewGroupHandler(&mockGroupService{}, &mockAuditService{})
		rec := doRequest(setupGroupRouter(h), http.MethodPost, "/join-group",
			`{"groupName":"flat","groupPassword":"pw","memberName":"Ravi","memberPassword":"mpw"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("maps credential errors", func(t *testing.T) {
		for code, err := range map[string]error{
			"GROUP_NOT_FOUND":     apperrors.ErrGroupNotFound,
			"BAD_GROUP_PASSWORD":  apperrors.ErrBadGroupPassword,
			"BAD_MEMBER_PASSWORD": apperrors.ErrBadMemberPassword,
		} {
			t.Run(code, func(t *testing.T) {
				h := NewGroupHandler(&mockGroupService{
					joinOrCreateMemberFn: func(services.JoinRequest) (*services.JoinResult, error) { return nil, err },
				}, &mockAuditService{})
				rec := doRequest(setupGroupRouter(h), http.MethodPost, "/join-group", body)
				assertErrorCode(t, parseJSON(t, rec), code)
			})
		}
	})
}

func TestGroupHandler_ListGroups(t *testing.T) {
	h := NewGroupHandler(&mockGroupService{
		listGroupsFn: func(page pagination.PageRequest) (*pagination.Page[models.Group], error) {
			p := pagination.NewPage([]models.Group{{GroupName: "flat"}}, page, 1)
			return &p, nil
		},
	}, &mockAuditService{})
	rec := doRequest(setupGroupRouter(h), http.MethodGet, "/groups", "")
	assertStatus(t, rec, http.StatusOK)
	groups := parseJSON(t, rec)["groups"].(map[string]interface{})
	if groups["total_items"] != float64(1) || groups["page"] != float64(1) {
		t.Errorf("unexpected page: %v", groups)
	}
}

func TestGroupHandler_ListMembersData(t *testing.T) {
	t.Run("returns member summaries", func(t *testing.T) {
		h := NewGroupHandler(&mockGroupService{
			listMembersDataFn: func(groupID string) ([]services.MemberSummary, error) {
				return []services.MemberSummary{{
					MemberID:   testMemberID,
					MemberName: "Ravi",
					Spents:     decimal.NewFromInt(40),
					DataByGroupMember: []models.GroupMemberData{
						{GroupID: groupID, GroupMemberID: testMemberID, Category: "rent", Amount: decimal.NewFromInt(40)},
					},
				}}, nil
			},
		}, &mockAuditService{})
		rec := doRequest(setupGroupRouter(h), http.MethodGet, "/"+testGroupID+"/members/data", "")
		assertStatus(t, rec, http.StatusOK)
		members := parseJSON(t, rec)["members"].([]interface{})
		if len(members) != 1 {
			t.Fatalf("expected one member, got %v", members)
		}
		m := members[0].(map[string]interface{})
		if m["memberName"] != "Ravi" || m["spents"] != float64(40) || len(m["dataByGroupMember"].([]interface{})) != 1 {
			t.Errorf("unexpected member: %v", m)
		}
	})

	t.Run("returns 404 for unknown group", func(t *testing.T) {
		h := NewGroupHandler(&mockGroupService{
			listMembersDataFn: func(string) ([]services.MemberSummary, error) { return nil, apperrors.ErrGroupNotFound },
		}, &mockAuditService{})
		rec := doRequest(setupGroupRouter(h), http.MethodGet, "/"+testGroupID+"/members/data", "")
		assertStatus(t, rec, http.StatusNotFound)
	})
}
