package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/testutil"
)

type chatFixture struct {
	service  *ChatService
	chatRepo *testutil.MockChatRepository
	wbRepo   *testutil.MockWorkbenchRepository
	owner    uuid.UUID
	wbID     int32
}

func newChatFixture() *chatFixture {
	wbRepo := testutil.NewMockWorkbenchRepository()
	chatRepo := testutil.NewMockChatRepository()
	access := NewAccessService(wbRepo, testutil.NewMockResolver())

	owner := uuid.New()
	wb, _ := wbRepo.Create(&domain.Workbench{Name: "Engineering", OwnerID: owner})

	return &chatFixture{
		service:  NewChatService(chatRepo, access),
		chatRepo: chatRepo,
		wbRepo:   wbRepo,
		owner:    owner,
		wbID:     wb.ID,
	}
}

func (f *chatFixture) addMember() uuid.UUID {
	id := uuid.New()
	f.wbRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: f.wbID, UserID: id, Role: domain.RoleMember})
	return id
}

func TestCreateDirectChat_WithSelfRejected(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.CreateDirectChat(f.wbID, f.owner, f.owner)
	if !errors.Is(err, domain.ErrDirectChatMemberCount) {
		t.Fatalf("Expected ErrDirectChatMemberCount, got %v", err)
	}
}

func TestCreateDirectChat_OutsiderCounterpartRejected(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.CreateDirectChat(f.wbID, f.owner, uuid.New())
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("Expected ErrMemberNotFound, got %v", err)
	}
}

func TestCreateDirectChat_BothParticipantsRoleless(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()

	chat, err := f.service.CreateDirectChat(f.wbID, f.owner, other)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if chat.Type != domain.ChatTypeDirect {
		t.Errorf("Expected direct chat, got %s", chat.Type)
	}

	members, _ := f.chatRepo.ListMembers(chat.ID)
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	for _, m := range members {
		if m.Role != nil {
			t.Errorf("Expected roleless direct chat member, got role %s", *m.Role)
		}
	}
}

func TestCreateGroupChat_CreatorBecomesChatAdmin(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()

	chat, err := f.service.CreateGroupChat(f.wbID, f.owner, "Release planning", []uuid.UUID{other})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	creator, err := f.chatRepo.GetMembership(chat.ID, f.owner)
	if err != nil {
		t.Fatalf("Expected creator membership, got %v", err)
	}
	if creator.Role == nil || *creator.Role != domain.ChatRoleAdmin {
		t.Error("Expected creator to be chat admin")
	}

	member, _ := f.chatRepo.GetMembership(chat.ID, other)
	if member.Role == nil || *member.Role != domain.ChatRoleMember {
		t.Error("Expected invitee to be chat member")
	}
}

func TestCreateGroupChat_OutsiderMemberRejected(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.CreateGroupChat(f.wbID, f.owner, "Release planning", []uuid.UUID{uuid.New()})
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("Expected ErrMemberNotFound, got %v", err)
	}
}

func TestUpdateChat_DirectChatImmutable(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()
	chat, _ := f.service.CreateDirectChat(f.wbID, f.owner, other)

	_, err := f.service.UpdateChat(chat.ID, f.owner, "Renamed")
	if !errors.Is(err, domain.ErrDirectChatImmutable) {
		t.Fatalf("Expected ErrDirectChatImmutable, got %v", err)
	}
}

func TestUpdateChat_RenameRequiresChatAdmin(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()
	chat, _ := f.service.CreateGroupChat(f.wbID, f.owner, "Release planning", []uuid.UUID{other})

	if _, err := f.service.UpdateChat(chat.ID, other, "Renamed"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for plain chat member, got %v", err)
	}

	renamed, err := f.service.UpdateChat(chat.ID, f.owner, "Renamed")
	if err != nil {
		t.Fatalf("Expected admin rename to succeed, got %v", err)
	}
	if renamed.Name == nil || *renamed.Name != "Renamed" {
		t.Error("Expected chat name to change")
	}
}

func TestDeleteChat_GroupRequiresChatAdmin(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()
	chat, _ := f.service.CreateGroupChat(f.wbID, f.owner, "Release planning", []uuid.UUID{other})

	if err := f.service.DeleteChat(chat.ID, other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	if err := f.service.DeleteChat(chat.ID, f.owner); err != nil {
		t.Fatalf("Expected admin delete to succeed, got %v", err)
	}
}

func TestDeleteChat_DirectDeletableByEitherParticipant(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()
	chat, _ := f.service.CreateDirectChat(f.wbID, f.owner, other)

	if err := f.service.DeleteChat(chat.ID, other); err != nil {
		t.Fatalf("Expected participant delete to succeed, got %v", err)
	}
}

func TestCanAccessChat_NonMemberForbidden(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()
	bystander := f.addMember()
	chat, _ := f.service.CreateDirectChat(f.wbID, f.owner, other)

	if err := f.service.CanAccessChat(chat.ID, bystander); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	if err := f.service.CanAccessChat(chat.ID, other); err != nil {
		t.Fatalf("Expected participant access, got %v", err)
	}
}

func TestGetChat_WorkbenchMemberOutsideChatForbidden(t *testing.T) {
	f := newChatFixture()
	other := f.addMember()
	bystander := f.addMember()
	chat, _ := f.service.CreateDirectChat(f.wbID, f.owner, other)

	if _, err := f.service.GetChat(chat.ID, bystander); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}
