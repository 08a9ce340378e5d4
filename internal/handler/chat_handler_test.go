package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/service"
	"github.com/orbitask/orbitask-backend/internal/testutil"
)

type chatHandlerFixture struct {
	handler       *ChatHandler
	workbenchRepo *testutil.MockWorkbenchRepository
	wbID          int32
	owner         uuid.UUID
}

func newChatHandlerFixture() *chatHandlerFixture {
	workbenchRepo := testutil.NewMockWorkbenchRepository()
	chatRepo := testutil.NewMockChatRepository()
	access := service.NewAccessService(workbenchRepo, testutil.NewMockResolver())
	chatService := service.NewChatService(chatRepo, access)

	owner := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Engineering", OwnerID: owner})

	return &chatHandlerFixture{
		handler:       NewChatHandler(chatService),
		workbenchRepo: workbenchRepo,
		wbID:          wb.ID,
		owner:         owner,
	}
}

func (f *chatHandlerFixture) addMember() uuid.UUID {
	id := uuid.New()
	f.workbenchRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: f.wbID, UserID: id, Role: domain.RoleMember})
	return id
}

func TestCreateDirectChat_Endpoint(t *testing.T) {
	e := echo.New()
	f := newChatHandlerFixture()
	other := f.addMember()

	body := fmt.Sprintf(`{"userId": "%s"}`, other)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workbenches/1/chats/direct", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", f.wbID))
	setupAuthContext(c, f.owner)

	if err := f.handler.CreateDirectChat(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Type != string(domain.ChatTypeDirect) {
		t.Errorf("Expected direct chat, got %s", response.Type)
	}
}

func TestCreateDirectChat_WithSelf(t *testing.T) {
	e := echo.New()
	f := newChatHandlerFixture()

	body := fmt.Sprintf(`{"userId": "%s"}`, f.owner)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workbenches/1/chats/direct", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", f.wbID))
	setupAuthContext(c, f.owner)

	if err := f.handler.CreateDirectChat(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateGroupChat_Endpoint(t *testing.T) {
	e := echo.New()
	f := newChatHandlerFixture()
	other := f.addMember()

	body := fmt.Sprintf(`{"name": "Release planning", "memberIds": ["%s"]}`, other)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workbenches/1/chats/group", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", f.wbID))
	setupAuthContext(c, f.owner)

	if err := f.handler.CreateGroupChat(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Type != string(domain.ChatTypeGroup) {
		t.Errorf("Expected group chat, got %s", response.Type)
	}
	if response.Name == nil || *response.Name != "Release planning" {
		t.Error("Expected group chat name to be set")
	}
}

func TestCreateGroupChat_MemberOutsideWorkbench(t *testing.T) {
	e := echo.New()
	f := newChatHandlerFixture()

	body := fmt.Sprintf(`{"name": "Release planning", "memberIds": ["%s"]}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workbenches/1/chats/group", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", f.wbID))
	setupAuthContext(c, f.owner)

	if err := f.handler.CreateGroupChat(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
