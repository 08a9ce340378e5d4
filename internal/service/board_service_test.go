package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/testutil"
)

type boardFixture struct {
	service    *BoardService
	boardRepo  *testutil.MockBoardRepository
	columnRepo *testutil.MockColumnRepository
	taskRepo   *testutil.MockTaskRepository
	tagRepo    *testutil.MockTagRepository
	resolver   *testutil.MockResolver
	owner      uuid.UUID
	admin      uuid.UUID
	member     uuid.UUID
	wbID       int32
}

func newBoardFixture() *boardFixture {
	wbRepo := testutil.NewMockWorkbenchRepository()
	boardRepo := testutil.NewMockBoardRepository()
	columnRepo := testutil.NewMockColumnRepository()
	taskRepo := testutil.NewMockTaskRepository()
	tagRepo := testutil.NewMockTagRepository(taskRepo)
	boardRepo.Columns = columnRepo
	boardRepo.Tasks = taskRepo
	boardRepo.Tags = tagRepo
	resolver := testutil.NewMockResolver()
	access := NewAccessService(wbRepo, resolver)

	owner := uuid.New()
	admin := uuid.New()
	member := uuid.New()
	wb, _ := wbRepo.Create(&domain.Workbench{Name: "Engineering", OwnerID: owner})
	wbRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: admin, Role: domain.RoleAdmin})
	wbRepo.AddMember(&domain.WorkbenchMember{WorkbenchID: wb.ID, UserID: member, Role: domain.RoleMember})

	return &boardFixture{
		service:    NewBoardService(boardRepo, access),
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		taskRepo:   taskRepo,
		tagRepo:    tagRepo,
		resolver:   resolver,
		owner:      owner,
		admin:      admin,
		member:     member,
		wbID:       wb.ID,
	}
}

func (f *boardFixture) addBoard() *domain.Board {
	board, _ := f.boardRepo.Create(&domain.Board{Name: "Sprint", WorkbenchID: f.wbID})
	f.resolver.Map(domain.KindBoard, board.ID, f.wbID)
	return board
}

func TestCreateBoard_MemberForbidden(t *testing.T) {
	f := newBoardFixture()

	if _, err := f.service.CreateBoard(f.wbID, f.member, "Sprint"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for member, got %v", err)
	}

	board, err := f.service.CreateBoard(f.wbID, f.admin, "Sprint")
	if err != nil {
		t.Fatalf("Expected admin create to succeed, got %v", err)
	}
	if board.WorkbenchID != f.wbID {
		t.Errorf("Expected workbench %d, got %d", f.wbID, board.WorkbenchID)
	}
}

func TestUpdateBoard_MemberForbidden(t *testing.T) {
	f := newBoardFixture()
	board := f.addBoard()

	if _, err := f.service.UpdateBoard(board.ID, f.member, "Renamed"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for member, got %v", err)
	}

	updated, err := f.service.UpdateBoard(board.ID, f.admin, "Renamed")
	if err != nil {
		t.Fatalf("Expected admin rename to succeed, got %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Expected renamed board, got %s", updated.Name)
	}
}

func TestDeleteBoard_MemberForbidden(t *testing.T) {
	f := newBoardFixture()
	board := f.addBoard()

	if err := f.service.DeleteBoard(board.ID, f.member); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for member, got %v", err)
	}
	if _, err := f.boardRepo.GetByID(board.ID); err != nil {
		t.Error("Expected board to survive a forbidden delete")
	}
}

func TestGetBoard_MembershipSuffices(t *testing.T) {
	f := newBoardFixture()
	board := f.addBoard()

	if _, err := f.service.GetBoard(board.ID, f.member); err != nil {
		t.Fatalf("Expected member read to succeed, got %v", err)
	}
	if _, err := f.service.GetBoard(board.ID, uuid.New()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for outsider, got %v", err)
	}
}

func TestDeleteBoard_CascadesDescendants(t *testing.T) {
	f := newBoardFixture()
	board := f.addBoard()
	other := f.addBoard()

	// Structure under the board: two columns, a tagged task in each.
	colA, _ := f.columnRepo.Create(&domain.Column{Title: "Todo", BoardID: board.ID})
	colB, _ := f.columnRepo.Create(&domain.Column{Title: "Done", BoardID: board.ID})
	taskA, _ := f.taskRepo.Create(&domain.TaskItem{Title: "Ship it", ColumnID: colA.ID})
	taskB, _ := f.taskRepo.Create(&domain.TaskItem{Title: "Test it", ColumnID: colB.ID})
	f.tagRepo.Tags[1] = &domain.Tag{ID: 1, Title: "urgent", BoardID: board.ID}
	f.taskRepo.AttachTag(taskA.ID, 1)
	f.taskRepo.AttachTag(taskB.ID, 1)

	// An untouched sibling board with its own column.
	otherCol, _ := f.columnRepo.Create(&domain.Column{Title: "Backlog", BoardID: other.ID})
	f.tagRepo.Tags[2] = &domain.Tag{ID: 2, Title: "later", BoardID: other.ID}

	if err := f.service.DeleteBoard(board.ID, f.admin); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := f.boardRepo.GetByID(board.ID); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Error("Expected board to be gone")
	}
	if _, err := f.columnRepo.GetByID(colA.ID); !errors.Is(err, domain.ErrColumnNotFound) {
		t.Error("Expected column A to be gone")
	}
	if _, err := f.columnRepo.GetByID(colB.ID); !errors.Is(err, domain.ErrColumnNotFound) {
		t.Error("Expected column B to be gone")
	}
	if _, err := f.taskRepo.GetByID(taskA.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Error("Expected task A to be gone")
	}
	if _, err := f.taskRepo.GetByID(taskB.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Error("Expected task B to be gone")
	}
	if len(f.taskRepo.TagLinks) != 0 {
		t.Errorf("Expected all tag links to be gone, got %d", len(f.taskRepo.TagLinks))
	}
	if _, err := f.tagRepo.GetByID(1); !errors.Is(err, domain.ErrTagNotFound) {
		t.Error("Expected the board's tag to be gone")
	}

	// The sibling board keeps its structure.
	if _, err := f.boardRepo.GetByID(other.ID); err != nil {
		t.Error("Expected sibling board to survive")
	}
	if _, err := f.columnRepo.GetByID(otherCol.ID); err != nil {
		t.Error("Expected sibling column to survive")
	}
	if _, err := f.tagRepo.GetByID(2); err != nil {
		t.Error("Expected sibling tag to survive")
	}
}
