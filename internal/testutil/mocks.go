package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orbitask/orbitask-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByIDs(ids []uuid.UUID) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := m.ByID[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, displayName, avatarURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:          uuid.New(),
		Auth0ID:     auth0ID,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   time.Now(),
	}
	m.AddUser(user)
	return user, nil
}

func (m *MockUserRepository) UpdateDisplayName(id uuid.UUID, displayName string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.DisplayName = &displayName
	return user, nil
}

func (m *MockUserRepository) UpdateAvatarURL(id uuid.UUID, avatarURL *string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.AvatarURL = avatarURL
	return user, nil
}

func (m *MockUserRepository) SearchInWorkbench(workbenchID int32, query string, limit int32) ([]*domain.User, error) {
	query = strings.ToLower(query)
	var users []*domain.User
	for _, user := range m.ByID {
		name := ""
		if user.DisplayName != nil {
			name = *user.DisplayName
		}
		if strings.Contains(strings.ToLower(user.Email), query) || strings.Contains(strings.ToLower(name), query) {
			users = append(users, user)
		}
		if int32(len(users)) >= limit {
			break
		}
	}
	return users, nil
}

// MockWorkbenchRepository is a mock implementation of domain.WorkbenchRepository
type MockWorkbenchRepository struct {
	Workbenches map[int32]*domain.Workbench
	Members     map[int32]map[uuid.UUID]*domain.WorkbenchMember
	NextID      int32
}

// NewMockWorkbenchRepository creates a new MockWorkbenchRepository
func NewMockWorkbenchRepository() *MockWorkbenchRepository {
	return &MockWorkbenchRepository{
		Workbenches: make(map[int32]*domain.Workbench),
		Members:     make(map[int32]map[uuid.UUID]*domain.WorkbenchMember),
		NextID:      1,
	}
}

func (m *MockWorkbenchRepository) GetByID(id int32) (*domain.Workbench, error) {
	if wb, ok := m.Workbenches[id]; ok {
		return wb, nil
	}
	return nil, domain.ErrWorkbenchNotFound
}

func (m *MockWorkbenchRepository) GetAllForUser(userID uuid.UUID) ([]*domain.Workbench, error) {
	var result []*domain.Workbench
	for id, members := range m.Members {
		if _, ok := members[userID]; ok {
			result = append(result, m.Workbenches[id])
		}
	}
	return result, nil
}

func (m *MockWorkbenchRepository) Create(workbench *domain.Workbench) (*domain.Workbench, error) {
	workbench.ID = m.NextID
	m.NextID++
	workbench.CreatedAt = time.Now()
	workbench.UpdatedAt = workbench.CreatedAt
	m.Workbenches[workbench.ID] = workbench
	m.Members[workbench.ID] = map[uuid.UUID]*domain.WorkbenchMember{
		workbench.OwnerID: {
			WorkbenchID: workbench.ID,
			UserID:      workbench.OwnerID,
			Role:        domain.RoleOwner,
			JoinedAt:    workbench.CreatedAt,
		},
	}
	return workbench, nil
}

func (m *MockWorkbenchRepository) Update(id int32, name string) (*domain.Workbench, error) {
	wb, ok := m.Workbenches[id]
	if !ok {
		return nil, domain.ErrWorkbenchNotFound
	}
	wb.Name = name
	wb.UpdatedAt = time.Now()
	return wb, nil
}

func (m *MockWorkbenchRepository) Delete(id int32) error {
	if _, ok := m.Workbenches[id]; !ok {
		return domain.ErrWorkbenchNotFound
	}
	delete(m.Workbenches, id)
	delete(m.Members, id)
	return nil
}

func (m *MockWorkbenchRepository) GetMembership(workbenchID int32, userID uuid.UUID) (*domain.WorkbenchMember, error) {
	if members, ok := m.Members[workbenchID]; ok {
		if member, ok := members[userID]; ok {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockWorkbenchRepository) ListMembers(workbenchID int32) ([]*domain.WorkbenchMember, error) {
	members, ok := m.Members[workbenchID]
	if !ok {
		return nil, nil
	}
	result := make([]*domain.WorkbenchMember, 0, len(members))
	for _, member := range members {
		result = append(result, member)
	}
	return result, nil
}

func (m *MockWorkbenchRepository) AddMember(member *domain.WorkbenchMember) error {
	if m.Members[member.WorkbenchID] == nil {
		m.Members[member.WorkbenchID] = make(map[uuid.UUID]*domain.WorkbenchMember)
	}
	if _, ok := m.Members[member.WorkbenchID][member.UserID]; ok {
		return domain.ErrMemberAlreadyExists
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	m.Members[member.WorkbenchID][member.UserID] = member
	return nil
}

func (m *MockWorkbenchRepository) UpdateMemberRole(workbenchID int32, userID uuid.UUID, role domain.Role) error {
	members, ok := m.Members[workbenchID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	member, ok := members[userID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	member.Role = role
	return nil
}

func (m *MockWorkbenchRepository) RemoveMember(workbenchID int32, userID uuid.UUID) error {
	members, ok := m.Members[workbenchID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	if _, ok := members[userID]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(members, userID)
	return nil
}

func (m *MockWorkbenchRepository) TransferOwnership(workbenchID int32, oldOwner, newOwner uuid.UUID) error {
	members, ok := m.Members[workbenchID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	successor, ok := members[newOwner]
	if !ok {
		return domain.ErrMemberNotFound
	}
	delete(members, oldOwner)
	successor.Role = domain.RoleOwner
	if wb, ok := m.Workbenches[workbenchID]; ok {
		wb.OwnerID = newOwner
	}
	return nil
}

// MockBoardRepository is a mock implementation of domain.BoardRepository.
// When the column/task/tag mocks are attached, Delete cascades through them
// the way the real repository's transaction does; nil references are fine
// when a test does not delete boards.
type MockBoardRepository struct {
	Boards  map[int32]*domain.Board
	Columns *MockColumnRepository
	Tasks   *MockTaskRepository
	Tags    *MockTagRepository
	NextID  int32
}

// NewMockBoardRepository creates a new MockBoardRepository
func NewMockBoardRepository() *MockBoardRepository {
	return &MockBoardRepository{Boards: make(map[int32]*domain.Board), NextID: 1}
}

func (m *MockBoardRepository) GetByID(id int32) (*domain.Board, error) {
	if board, ok := m.Boards[id]; ok {
		return board, nil
	}
	return nil, domain.ErrBoardNotFound
}

func (m *MockBoardRepository) GetAllByWorkbench(workbenchID int32) ([]*domain.Board, error) {
	var result []*domain.Board
	for _, board := range m.Boards {
		if board.WorkbenchID == workbenchID {
			result = append(result, board)
		}
	}
	return result, nil
}

func (m *MockBoardRepository) Create(board *domain.Board) (*domain.Board, error) {
	board.ID = m.NextID
	m.NextID++
	board.CreatedAt = time.Now()
	board.UpdatedAt = board.CreatedAt
	m.Boards[board.ID] = board
	return board, nil
}

func (m *MockBoardRepository) Update(id int32, name string) (*domain.Board, error) {
	board, ok := m.Boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	board.Name = name
	board.UpdatedAt = time.Now()
	return board, nil
}

func (m *MockBoardRepository) Delete(id int32) error {
	if _, ok := m.Boards[id]; !ok {
		return domain.ErrBoardNotFound
	}
	if m.Columns != nil {
		for columnID, column := range m.Columns.Columns {
			if column.BoardID != id {
				continue
			}
			if m.Tasks != nil {
				for taskID, task := range m.Tasks.Tasks {
					if task.ColumnID == columnID {
						delete(m.Tasks.Tasks, taskID)
						delete(m.Tasks.TagLinks, taskID)
					}
				}
			}
			delete(m.Columns.Columns, columnID)
		}
	}
	if m.Tags != nil {
		for tagID, tag := range m.Tags.Tags {
			if tag.BoardID == id {
				delete(m.Tags.Tags, tagID)
			}
		}
	}
	delete(m.Boards, id)
	return nil
}

// MockColumnRepository is a mock implementation of domain.ColumnRepository
type MockColumnRepository struct {
	Columns map[int32]*domain.Column
	NextID  int32
}

// NewMockColumnRepository creates a new MockColumnRepository
func NewMockColumnRepository() *MockColumnRepository {
	return &MockColumnRepository{Columns: make(map[int32]*domain.Column), NextID: 1}
}

func (m *MockColumnRepository) GetByID(id int32) (*domain.Column, error) {
	if column, ok := m.Columns[id]; ok {
		return column, nil
	}
	return nil, domain.ErrColumnNotFound
}

func (m *MockColumnRepository) GetAllByBoard(boardID int32) ([]*domain.Column, error) {
	var result []*domain.Column
	for _, column := range m.Columns {
		if column.BoardID == boardID {
			result = append(result, column)
		}
	}
	return result, nil
}

func (m *MockColumnRepository) Create(column *domain.Column) (*domain.Column, error) {
	column.ID = m.NextID
	m.NextID++
	m.Columns[column.ID] = column
	return column, nil
}

func (m *MockColumnRepository) Update(column *domain.Column) (*domain.Column, error) {
	existing, ok := m.Columns[column.ID]
	if !ok {
		return nil, domain.ErrColumnNotFound
	}
	existing.Title = column.Title
	existing.Position = column.Position
	return existing, nil
}

func (m *MockColumnRepository) Delete(id int32) error {
	if _, ok := m.Columns[id]; !ok {
		return domain.ErrColumnNotFound
	}
	delete(m.Columns, id)
	return nil
}

// MockTaskRepository is a mock implementation of domain.TaskRepository
type MockTaskRepository struct {
	Tasks    map[int32]*domain.TaskItem
	TagLinks map[int32]map[int32]bool
	NextID   int32
}

// NewMockTaskRepository creates a new MockTaskRepository
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:    make(map[int32]*domain.TaskItem),
		TagLinks: make(map[int32]map[int32]bool),
		NextID:   1,
	}
}

func (m *MockTaskRepository) GetByID(id int32) (*domain.TaskItem, error) {
	if task, ok := m.Tasks[id]; ok {
		return task, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (m *MockTaskRepository) GetAllByColumn(columnID int32) ([]*domain.TaskItem, error) {
	var result []*domain.TaskItem
	for _, task := range m.Tasks {
		if task.ColumnID == columnID {
			result = append(result, task)
		}
	}
	return result, nil
}

func (m *MockTaskRepository) Create(task *domain.TaskItem) (*domain.TaskItem, error) {
	task.ID = m.NextID
	m.NextID++
	task.CreatedOn = time.Now()
	m.Tasks[task.ID] = task
	return task, nil
}

func (m *MockTaskRepository) Update(task *domain.TaskItem) (*domain.TaskItem, error) {
	existing, ok := m.Tasks[task.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Position = task.Position
	existing.DueDate = task.DueDate
	existing.ColumnID = task.ColumnID
	return existing, nil
}

func (m *MockTaskRepository) Delete(id int32) error {
	if _, ok := m.Tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	delete(m.TagLinks, id)
	return nil
}

func (m *MockTaskRepository) AttachTag(taskID, tagID int32) error {
	if m.TagLinks[taskID] == nil {
		m.TagLinks[taskID] = make(map[int32]bool)
	}
	m.TagLinks[taskID][tagID] = true
	return nil
}

func (m *MockTaskRepository) DetachTag(taskID, tagID int32) error {
	if links, ok := m.TagLinks[taskID]; ok && links[tagID] {
		delete(links, tagID)
		return nil
	}
	return domain.ErrTagNotFound
}

// MockTagRepository is a mock implementation of domain.TagRepository
type MockTagRepository struct {
	Tags   map[int32]*domain.Tag
	Tasks  *MockTaskRepository
	NextID int32
}

// NewMockTagRepository creates a new MockTagRepository. Pass the task mock so
// GetAllForTask can read its tag links; nil is fine when unused.
func NewMockTagRepository(tasks *MockTaskRepository) *MockTagRepository {
	return &MockTagRepository{Tags: make(map[int32]*domain.Tag), Tasks: tasks, NextID: 1}
}

func (m *MockTagRepository) GetByID(id int32) (*domain.Tag, error) {
	if tag, ok := m.Tags[id]; ok {
		return tag, nil
	}
	return nil, domain.ErrTagNotFound
}

func (m *MockTagRepository) GetAllByBoard(boardID int32) ([]*domain.Tag, error) {
	var result []*domain.Tag
	for _, tag := range m.Tags {
		if tag.BoardID == boardID {
			result = append(result, tag)
		}
	}
	return result, nil
}

func (m *MockTagRepository) GetAllForTask(taskID int32) ([]*domain.Tag, error) {
	var result []*domain.Tag
	if m.Tasks == nil {
		return result, nil
	}
	for tagID := range m.Tasks.TagLinks[taskID] {
		if tag, ok := m.Tags[tagID]; ok {
			result = append(result, tag)
		}
	}
	return result, nil
}

func (m *MockTagRepository) Create(tag *domain.Tag) (*domain.Tag, error) {
	tag.ID = m.NextID
	m.NextID++
	m.Tags[tag.ID] = tag
	return tag, nil
}

func (m *MockTagRepository) Update(id int32, title string) (*domain.Tag, error) {
	tag, ok := m.Tags[id]
	if !ok {
		return nil, domain.ErrTagNotFound
	}
	tag.Title = title
	return tag, nil
}

func (m *MockTagRepository) Delete(id int32) error {
	if _, ok := m.Tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(m.Tags, id)
	return nil
}

// MockChatRepository is a mock implementation of domain.ChatRepository
type MockChatRepository struct {
	Chats   map[int32]*domain.Chat
	Members map[int32]map[uuid.UUID]*domain.ChatUser
	NextID  int32
}

// NewMockChatRepository creates a new MockChatRepository
func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{
		Chats:   make(map[int32]*domain.Chat),
		Members: make(map[int32]map[uuid.UUID]*domain.ChatUser),
		NextID:  1,
	}
}

func (m *MockChatRepository) GetByID(id int32) (*domain.Chat, error) {
	if chat, ok := m.Chats[id]; ok {
		return chat, nil
	}
	return nil, domain.ErrChatNotFound
}

func (m *MockChatRepository) GetAllForUser(workbenchID int32, userID uuid.UUID) ([]*domain.Chat, error) {
	var result []*domain.Chat
	for id, members := range m.Members {
		chat := m.Chats[id]
		if chat == nil || chat.WorkbenchID != workbenchID {
			continue
		}
		if _, ok := members[userID]; ok {
			result = append(result, chat)
		}
	}
	return result, nil
}

func (m *MockChatRepository) CreateDirect(chat *domain.Chat, userA, userB uuid.UUID) (*domain.Chat, error) {
	chat.ID = m.NextID
	m.NextID++
	chat.Type = domain.ChatTypeDirect
	chat.CreatedAt = time.Now()
	m.Chats[chat.ID] = chat
	m.Members[chat.ID] = map[uuid.UUID]*domain.ChatUser{
		userA: {ChatID: chat.ID, UserID: userA, JoinedAt: chat.CreatedAt},
		userB: {ChatID: chat.ID, UserID: userB, JoinedAt: chat.CreatedAt},
	}
	return chat, nil
}

func (m *MockChatRepository) CreateGroup(chat *domain.Chat, creator uuid.UUID, memberIDs []uuid.UUID) (*domain.Chat, error) {
	chat.ID = m.NextID
	m.NextID++
	chat.Type = domain.ChatTypeGroup
	chat.CreatedAt = time.Now()
	m.Chats[chat.ID] = chat

	adminRole := domain.ChatRoleAdmin
	memberRole := domain.ChatRoleMember
	members := map[uuid.UUID]*domain.ChatUser{
		creator: {ChatID: chat.ID, UserID: creator, Role: &adminRole, JoinedAt: chat.CreatedAt},
	}
	for _, id := range memberIDs {
		if id == creator {
			continue
		}
		role := memberRole
		members[id] = &domain.ChatUser{ChatID: chat.ID, UserID: id, Role: &role, JoinedAt: chat.CreatedAt}
	}
	m.Members[chat.ID] = members
	return chat, nil
}

func (m *MockChatRepository) UpdateName(id int32, name string) (*domain.Chat, error) {
	chat, ok := m.Chats[id]
	if !ok {
		return nil, domain.ErrChatNotFound
	}
	chat.Name = &name
	return chat, nil
}

func (m *MockChatRepository) Delete(id int32) error {
	if _, ok := m.Chats[id]; !ok {
		return domain.ErrChatNotFound
	}
	delete(m.Chats, id)
	delete(m.Members, id)
	return nil
}

func (m *MockChatRepository) GetMembership(chatID int32, userID uuid.UUID) (*domain.ChatUser, error) {
	if members, ok := m.Members[chatID]; ok {
		if member, ok := members[userID]; ok {
			return member, nil
		}
	}
	return nil, domain.ErrNotChatMember
}

func (m *MockChatRepository) ListMembers(chatID int32) ([]*domain.ChatUser, error) {
	members, ok := m.Members[chatID]
	if !ok {
		return nil, nil
	}
	result := make([]*domain.ChatUser, 0, len(members))
	for _, member := range members {
		result = append(result, member)
	}
	return result, nil
}

func (m *MockChatRepository) IsMember(chatID int32, userID uuid.UUID) (bool, error) {
	members, ok := m.Members[chatID]
	if !ok {
		return false, nil
	}
	_, ok = members[userID]
	return ok, nil
}

// MockMessageRepository is a mock implementation of domain.MessageRepository
type MockMessageRepository struct {
	Messages map[int32]*domain.Message
	Chats    *MockChatRepository
	NextID   int32
}

// NewMockMessageRepository creates a new MockMessageRepository. Pass the chat
// mock so Create can bump last_message_at; nil is fine when unused.
func NewMockMessageRepository(chats *MockChatRepository) *MockMessageRepository {
	return &MockMessageRepository{
		Messages: make(map[int32]*domain.Message),
		Chats:    chats,
		NextID:   1,
	}
}

func (m *MockMessageRepository) GetByID(id int32) (*domain.Message, error) {
	if message, ok := m.Messages[id]; ok {
		return message, nil
	}
	return nil, domain.ErrMessageNotFound
}

func (m *MockMessageRepository) GetAllByChat(chatID int32) ([]*domain.Message, error) {
	var result []*domain.Message
	for _, message := range m.Messages {
		if message.ChatID == chatID {
			result = append(result, message)
		}
	}
	return result, nil
}

func (m *MockMessageRepository) Create(message *domain.Message) (*domain.Message, error) {
	message.ID = m.NextID
	m.NextID++
	message.CreatedAt = time.Now()
	m.Messages[message.ID] = message
	if m.Chats != nil {
		if chat, ok := m.Chats.Chats[message.ChatID]; ok {
			at := message.CreatedAt
			chat.LastMessageAt = &at
		}
	}
	return message, nil
}

func (m *MockMessageRepository) UpdateContent(id int32, content string) (*domain.Message, error) {
	message, ok := m.Messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	message.Content = content
	return message, nil
}

func (m *MockMessageRepository) Delete(id int32) error {
	if _, ok := m.Messages[id]; !ok {
		return domain.ErrMessageNotFound
	}
	delete(m.Messages, id)
	return nil
}

// MockResolver is a mock implementation of domain.WorkbenchResolver backed by
// static kind/id mappings
type MockResolver struct {
	Mappings map[domain.EntityKind]map[int32]int32
}

// NewMockResolver creates a new MockResolver
func NewMockResolver() *MockResolver {
	return &MockResolver{Mappings: make(map[domain.EntityKind]map[int32]int32)}
}

// Map registers an entity as belonging to a workbench
func (m *MockResolver) Map(kind domain.EntityKind, id, workbenchID int32) {
	if m.Mappings[kind] == nil {
		m.Mappings[kind] = make(map[int32]int32)
	}
	m.Mappings[kind][id] = workbenchID
}

func (m *MockResolver) ResolveWorkbench(kind domain.EntityKind, id int32) (int32, error) {
	if byID, ok := m.Mappings[kind]; ok {
		if workbenchID, ok := byID[id]; ok {
			return workbenchID, nil
		}
	}
	return 0, domain.ErrNotFound
}
