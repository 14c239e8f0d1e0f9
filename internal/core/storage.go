package core

import "context"

// Archive is the optional write-only durability layer. The in-memory
// stores never read from it; restart recovery is out of scope.
type Archive interface {
	SaveRecord(ctx context.Context, key string, rec BookRecord) error
	AppendMessage(ctx context.Context, msg Message) error
}
