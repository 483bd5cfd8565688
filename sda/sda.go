// Package sda is the data access layer consumed by the editing engine:
// objects identified by Hvo, each carrying string, unicode, integer,
// multistring and owning-sequence properties identified by Tag, with
// undoable tasks and change notification.
package sda

import (
	"errors"

	"github.com/rjkroege/richedit/rich"
)

// Hvo identifies an object.
type Hvo int64

// Tag identifies a property of an object.
type Tag int

// Class identifies the class of an object.
type Class int

// NoObject is the zero Hvo.
const NoObject Hvo = 0

var (
	ErrNoObject  = errors.New("sda: no such object")
	ErrBadIndex  = errors.New("sda: index out of range")
	ErrWrongKind = errors.New("sda: property has a different kind")
)

// PropKind says how a property is stored.
type PropKind int

const (
	KindString PropKind = iota
	KindUnicode
	KindInt
	KindMultiString
	KindOwningSeq
)

// DataAccess is the store the selection engine reads and writes. Each
// mutating call is individually atomic and undo-logged.
type DataAccess interface {
	StringProp(hvo Hvo, tag Tag) rich.String
	SetString(hvo Hvo, tag Tag, s rich.String) error
	UnicodeProp(hvo Hvo, tag Tag) string
	SetUnicode(hvo Hvo, tag Tag, s string) error
	IntProp(hvo Hvo, tag Tag) int
	SetInt(hvo Hvo, tag Tag, v int) error
	MultiStringAlt(hvo Hvo, tag Tag, ws int) rich.String
	SetMultiStringAlt(hvo Hvo, tag Tag, ws int, s rich.String) error

	VecSize(hvo Hvo, tag Tag) int
	VecItem(hvo Hvo, tag Tag, i int) (Hvo, error)

	// MakeNewObject creates an object of class owned by owner in the
	// sequence tag at position ord.
	MakeNewObject(class Class, owner Hvo, tag Tag, ord int) (Hvo, error)
	// InsertNew inserts n objects after position ihvo of the sequence
	// tag, copying the class and paragraph style of the object at ihvo.
	// When nextStyle is not nil it maps the copied style to the style of
	// the new objects.
	InsertNew(hvo Hvo, tag Tag, ihvo, n int, nextStyle func(string) string) error
	// DeleteObjOwner removes hvo from position ord of owner's sequence tag
	// and deletes it along with everything it owns.
	DeleteObjOwner(owner, hvo Hvo, tag Tag, ord int) error
	// MoveString moves [min, lim) of src's string property srcTag to
	// offset ichDst of dst's string property dstTag.
	MoveString(src Hvo, srcTag Tag, min, lim int, dst Hvo, dstTag Tag, ichDst int) error

	ObjClass(hvo Hvo) Class
	ObjOwner(hvo Hvo) (Hvo, Tag)
	IsValidObject(hvo Hvo) bool

	BeginUndoTask(undo, redo string)
	EndUndoTask()
	InUndoTask() bool
}

// Observer implementations can register themselves with a Cache so they
// are notified of every property change.
type Observer interface {
	// PropChanged reports that property tag of hvo changed. For sequences,
	// cvDel items were replaced by cvIns items at ivMin. For multistring
	// alternatives ivMin is the writing system.
	PropChanged(hvo Hvo, tag Tag, ivMin, cvIns, cvDel int)

	// TaskEnded reports that the outermost undo task (or an untasked
	// single change, or an undo/redo) completed.
	TaskEnded()
}
