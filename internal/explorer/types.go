package explorer

import (
	"fmt"

	apperrors "twopane/internal/errors"
	"twopane/internal/fileops"
)

// OpKind tags the primitive an Action applied.
type OpKind int

const (
	OpCopy OpKind = iota + 1
	OpMove
	OpRename
)

func (k OpKind) String() string {
	switch k {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpRename:
		return "rename"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Transferable reports whether k can be queued for a paste or transfer.
func (k OpKind) Transferable() bool {
	return k == OpCopy || k == OpMove
}

// ParseOpKind parses "copy", "move" or "rename".
func ParseOpKind(s string) (OpKind, error) {
	switch s {
	case "copy":
		return OpCopy, nil
	case "move":
		return OpMove, nil
	case "rename":
		return OpRename, nil
	}
	return 0, apperrors.NewInvalidArgumentError("parse_op_kind", "", "unknown operation "+s)
}

// PendingItem is one source marked for a later paste.
type PendingItem struct {
	Source    string
	Operation OpKind
}

// Selection names entries of one parent directory.
type Selection struct {
	Parent    string
	Names     []string
	Operation OpKind // used by StoreSrc only
}

// TransferSpec describes a copy or move that does not go through the
// pending selection.
type TransferSpec struct {
	SrcDir    string
	Names     []string
	DstDir    string
	Operation OpKind
}

// Action records one applied primitive, enough to reverse or replay it.
// Destination is the target directory for copy and move and the new stem
// for rename. Prefix and Suffix hold the literal strings a rename used.
type Action struct {
	Source      string
	Operation   OpKind
	Destination string
	Result      string
	Prefix      string
	Suffix      string
}

// Batch is the list of Actions produced by one command.
type Batch []Action

// Equal reports whether b and other hold the same Actions in the same order.
func (b Batch) Equal(other Batch) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share storage with b.
func (b Batch) Clone() Batch {
	if b == nil {
		return nil
	}
	return append(Batch{}, b...)
}

// Entry is one row of a directory listing.
type Entry struct {
	Name     string
	Modified string
	Kind     fileops.Kind
}
