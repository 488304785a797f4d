package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("conflict")
)

// Role is the account role stored with each user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered student or administrator.
type User struct {
	ID           int64
	Name         string
	Class        string
	Section      string
	Username     string
	PasswordHash string
	ProfilePhoto *string
	Role         Role
	IsBanned     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// NewUser holds the fields required to create a user.
type NewUser struct {
	Name         string
	Class        string
	Section      string
	Username     string
	PasswordHash string
	Role         Role
}

// MessageKind distinguishes direct from group messages.
type MessageKind string

const (
	MessageKindPrivate MessageKind = "private"
	MessageKindGroup   MessageKind = "group"
)

// Message represents a persisted chat message.
// Exactly one of ReceiverID and GroupID is set, matching Kind.
type Message struct {
	ID         int64
	SenderID   int64
	SenderName string // denormalized from users.name, filled on insert and read
	Kind       MessageKind
	ReceiverID *int64
	GroupID    *int64
	Content    *string
	ImageURL   *string
	CreatedAt  time.Time
}

// GroupRole is a member's role inside a group.
type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// Group represents a group chat.
type Group struct {
	ID        int64
	Name      string
	PhotoURL  *string
	AdminID   *int64 // nil once the creating account is deleted
	CreatedAt time.Time
}

// Report is a user-filed moderation report.
type Report struct {
	ID             int64
	ReporterID     int64
	ReportedUserID int64
	MessageID      *int64
	Reason         string
	Status         string
	CreatedAt      time.Time
}

// Notice is a notice board post.
type Notice struct {
	ID        int64
	Title     string
	Content   string
	AdminID   int64
	AdminName string
	CreatedAt time.Time
}

// NoticeComment is a comment on a notice.
type NoticeComment struct {
	ID        int64
	NoticeID  int64
	UserID    int64
	UserName  string
	Content   string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrConflict when the username is taken.
	CreateUser(ctx context.Context, u NewUser) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// TouchLastLogin stamps the user's last login time.
	TouchLastLogin(ctx context.Context, id int64) error

	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]*User, error)

	// SuggestUsers returns up to limit users the given user does not follow,
	// classmates first.
	SuggestUsers(ctx context.Context, userID int64, limit int) ([]*User, error)

	// BanUser marks a user as banned.
	BanUser(ctx context.Context, id int64) error

	// DeleteUser removes a user and everything that references them.
	DeleteUser(ctx context.Context, id int64) error
}

// FollowStore handles the follow graph.
type FollowStore interface {
	// Follow creates an edge follower -> following. Returns ErrConflict if it exists.
	Follow(ctx context.Context, followerID, followingID int64) error

	// Unfollow removes the edge if present.
	Unfollow(ctx context.Context, followerID, followingID int64) error

	// IsFollowing reports whether followerID follows followingID.
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)

	// ListFollowing returns the users followerID follows.
	ListFollowing(ctx context.Context, followerID int64) ([]*User, error)
}

// GroupStore handles groups and their membership.
type GroupStore interface {
	// CreateGroup creates a group with adminID as group admin and memberIDs as members.
	CreateGroup(ctx context.Context, name string, adminID int64, memberIDs []int64) (*Group, error)

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, id int64) (*Group, error)

	// ListGroupsForUser lists the groups a user belongs to.
	ListGroupsForUser(ctx context.Context, userID int64) ([]*Group, error)

	// AddGroupMember adds a member; a no-op if already present.
	AddGroupMember(ctx context.Context, groupID, userID int64, role GroupRole) error

	// RemoveGroupMember removes a member if present.
	RemoveGroupMember(ctx context.Context, groupID, userID int64) error

	// IsGroupMember checks whether userID belongs to groupID.
	IsGroupMember(ctx context.Context, groupID, userID int64) (bool, error)

	// ListGroupMembers returns the current member ids, empty if the group is absent.
	ListGroupMembers(ctx context.Context, groupID int64) ([]int64, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// InsertMessage persists msg and fills ID, CreatedAt and SenderName.
	InsertMessage(ctx context.Context, msg *Message) error

	// GetMessage retrieves a message by ID.
	GetMessage(ctx context.Context, id int64) (*Message, error)

	// ListPrivateMessages returns the conversation between two users, oldest first.
	ListPrivateMessages(ctx context.Context, userID, otherID int64) ([]*Message, error)

	// ListGroupMessages returns a group's history, oldest first.
	ListGroupMessages(ctx context.Context, groupID int64) ([]*Message, error)
}

// ReportStore handles moderation reports.
type ReportStore interface {
	CreateReport(ctx context.Context, r *Report) error
	ListReports(ctx context.Context) ([]*Report, error)
}

// NoticeStore handles the notice board.
type NoticeStore interface {
	CreateNotice(ctx context.Context, adminID int64, title, content string) (*Notice, error)
	GetNotice(ctx context.Context, id int64) (*Notice, error)
	ListNotices(ctx context.Context) ([]*Notice, error)
	CreateNoticeComment(ctx context.Context, noticeID, userID int64, content string) (*NoticeComment, error)
	ListNoticeComments(ctx context.Context, noticeID int64) ([]*NoticeComment, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	FollowStore
	GroupStore
	MessageStore
	ReportStore
	NoticeStore

	// Close closes the underlying database connection.
	Close() error
}
