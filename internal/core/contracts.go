//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=contracts.go -destination=mocks/mock_contracts.go -package=mocks

package core

import (
	"context"

	"github.com/vovakirdan/shinehub-server/internal/store"
)

// MessageStore persists messages before they are fanned out.
type MessageStore interface {
	// InsertMessage stores msg and fills in ID, CreatedAt and SenderName.
	InsertMessage(ctx context.Context, msg *store.Message) error
}

// MembershipOracle answers who currently belongs to a group.
type MembershipOracle interface {
	// ListGroupMembers returns the member ids, empty when the group does not exist.
	ListGroupMembers(ctx context.Context, groupID int64) ([]int64, error)
}
