package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

func setupGroupRouter(groupRepo *mocks.GroupRepositoryMock, userRepo *mocks.UserRepositoryMock) *gin.Engine {
	handler := NewGroupHandler(groupRepo, userRepo, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", int64(1))
		c.Next()
	})
	r.POST("/groups", handler.CreateGroup)
	r.GET("/groups", handler.ListGroups)
	r.GET("/groups/:group_id/members", handler.GetGroupMembers)
	return r
}

func TestCreateGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	router := setupGroupRouter(groupRepo, userRepo)

	userRepo.On("GetUser", mock.Anything, int64(2)).Return(models.User{ID: 2}, nil).Once()
	groupRepo.On("CreateGroup", mock.Anything, int64(1), "team", []int64{2}).Return(models.Group{ID: 7, Name: "team"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"team","member_ids":[2]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateGroupUnknownMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	router := setupGroupRouter(groupRepo, userRepo)

	userRepo.On("GetUser", mock.Anything, int64(404)).Return(models.User{}, repositories.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"team","member_ids":[404]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	groupRepo.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateGroupMissingName(t *testing.T) {
	router := setupGroupRouter(new(mocks.GroupRepositoryMock), new(mocks.UserRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"member_ids":[2]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGroups(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(groupRepo, new(mocks.UserRepositoryMock))

	groupRepo.On("ListGroupsForUser", mock.Anything, int64(1)).Return([]models.Group{{ID: 7, Name: "team"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestGetGroupMembersNonMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(groupRepo, new(mocks.UserRepositoryMock))

	groupRepo.On("GetGroup", mock.Anything, int64(7)).Return(models.Group{ID: 7}, nil).Once()
	groupRepo.On("IsMember", mock.Anything, int64(7), int64(1)).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/7/members", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	groupRepo.AssertNotCalled(t, "Members", mock.Anything, mock.Anything)
}

func TestGetGroupMembersUnknownGroup(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	router := setupGroupRouter(groupRepo, new(mocks.UserRepositoryMock))

	groupRepo.On("GetGroup", mock.Anything, int64(99)).Return(models.Group{}, repositories.ErrGroupNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/99/members", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
