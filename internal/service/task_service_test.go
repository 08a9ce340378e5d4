package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
	"github.com/orbitask/orbitask-backend/internal/testutil"
)

type taskFixture struct {
	service    *TaskService
	taskRepo   *testutil.MockTaskRepository
	columnRepo *testutil.MockColumnRepository
	tagRepo    *testutil.MockTagRepository
	resolver   *testutil.MockResolver
	member     uuid.UUID
	wbID       int32
}

// newTaskFixture builds a workbench with one member, one board and a single
// column on it (ID 1).
func newTaskFixture() *taskFixture {
	workbenchRepo := testutil.NewMockWorkbenchRepository()
	taskRepo := testutil.NewMockTaskRepository()
	columnRepo := testutil.NewMockColumnRepository()
	tagRepo := testutil.NewMockTagRepository(taskRepo)
	resolver := testutil.NewMockResolver()
	access := NewAccessService(workbenchRepo, resolver)

	member := uuid.New()
	wb, _ := workbenchRepo.Create(&domain.Workbench{Name: "Engineering", OwnerID: member})

	columnRepo.Create(&domain.Column{Title: "Todo", BoardID: 1})
	resolver.Map(domain.KindColumn, 1, wb.ID)

	return &taskFixture{
		service:    NewTaskService(taskRepo, columnRepo, tagRepo, access),
		taskRepo:   taskRepo,
		columnRepo: columnRepo,
		tagRepo:    tagRepo,
		resolver:   resolver,
		member:     member,
		wbID:       wb.ID,
	}
}

func (f *taskFixture) addTask(columnID int32) *domain.TaskItem {
	task, _ := f.taskRepo.Create(&domain.TaskItem{Title: "Ship it", ColumnID: columnID})
	f.resolver.Map(domain.KindTask, task.ID, f.wbID)
	return task
}

func TestCreateTask_UnknownColumnRejected(t *testing.T) {
	f := newTaskFixture()

	_, err := f.service.CreateTask(99, f.member, TaskInput{Title: "Ship it"})
	if !errors.Is(err, domain.ErrColumnNotFound) {
		t.Fatalf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestCreateTask_StampsColumn(t *testing.T) {
	f := newTaskFixture()

	task, err := f.service.CreateTask(1, f.member, TaskInput{Title: "Ship it", Description: "v1 release"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.ColumnID != 1 {
		t.Errorf("Expected column 1, got %d", task.ColumnID)
	}
}

func TestUpdateTask_CrossBoardMoveRejected(t *testing.T) {
	f := newTaskFixture()
	task := f.addTask(1)

	// A second column on a different board.
	other, _ := f.columnRepo.Create(&domain.Column{Title: "Done", BoardID: 2})
	f.resolver.Map(domain.KindColumn, other.ID, f.wbID)

	_, err := f.service.UpdateTask(task.ID, f.member, TaskInput{Title: task.Title, ColumnID: other.ID})
	if !errors.Is(err, domain.ErrCrossBoardMove) {
		t.Fatalf("Expected ErrCrossBoardMove, got %v", err)
	}
}

func TestUpdateTask_SameBoardMove(t *testing.T) {
	f := newTaskFixture()
	task := f.addTask(1)

	other, _ := f.columnRepo.Create(&domain.Column{Title: "Done", BoardID: 1})
	f.resolver.Map(domain.KindColumn, other.ID, f.wbID)

	updated, err := f.service.UpdateTask(task.ID, f.member, TaskInput{Title: task.Title, ColumnID: other.ID})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.ColumnID != other.ID {
		t.Errorf("Expected column %d, got %d", other.ID, updated.ColumnID)
	}
}

func TestUpdateTask_OutsiderForbidden(t *testing.T) {
	f := newTaskFixture()
	task := f.addTask(1)

	_, err := f.service.UpdateTask(task.ID, uuid.New(), TaskInput{Title: "Hijack"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}

func TestAttachTag_BoardMismatchRejected(t *testing.T) {
	f := newTaskFixture()
	task := f.addTask(1)

	f.tagRepo.Tags[1] = &domain.Tag{ID: 1, Title: "urgent", BoardID: 2}

	if err := f.service.AttachTag(task.ID, 1, f.member); !errors.Is(err, domain.ErrTagBoardMismatch) {
		t.Fatalf("Expected ErrTagBoardMismatch, got %v", err)
	}
}

func TestAttachTag_IdempotentReattach(t *testing.T) {
	f := newTaskFixture()
	task := f.addTask(1)

	f.tagRepo.Tags[1] = &domain.Tag{ID: 1, Title: "urgent", BoardID: 1}

	if err := f.service.AttachTag(task.ID, 1, f.member); err != nil {
		t.Fatalf("Expected first attach to succeed, got %v", err)
	}
	if err := f.service.AttachTag(task.ID, 1, f.member); err != nil {
		t.Fatalf("Expected re-attach to be a no-op, got %v", err)
	}

	tags, _ := f.tagRepo.GetAllForTask(task.ID)
	if len(tags) != 1 {
		t.Errorf("Expected 1 attached tag, got %d", len(tags))
	}
}

func TestDetachTag_MissingLinkRejected(t *testing.T) {
	f := newTaskFixture()
	task := f.addTask(1)

	if err := f.service.DetachTag(task.ID, 1, f.member); !errors.Is(err, domain.ErrTagNotFound) {
		t.Fatalf("Expected ErrTagNotFound, got %v", err)
	}
}
