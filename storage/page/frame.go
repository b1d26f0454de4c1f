// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"github.com/All23tor/DiscoBD/types"
)

// Frame holds one resident page: a page-sized byte buffer plus the
// dirty bit and pin count. Frames are exclusively owned by the
// buffer manager.
type Frame struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     []byte
}

func NewFrame(id types.PageID, data []byte) *Frame {
	return &Frame{id, 0, false, data}
}

// ID returns the page id
func (f *Frame) ID() types.PageID {
	return f.id
}

func (f *Frame) Data() []byte {
	return f.data
}

// IncPinCount increments pin count
func (f *Frame) IncPinCount() {
	f.pinCount++
}

// DecPinCount decrements pin count, saturating at zero
func (f *Frame) DecPinCount() {
	if f.pinCount > 0 {
		f.pinCount--
	}
}

// PinCount returns the pin count
func (f *Frame) PinCount() int32 {
	return f.pinCount
}

func (f *Frame) SetIsDirty(isDirty bool) {
	f.isDirty = isDirty
}

func (f *Frame) IsDirty() bool {
	return f.isDirty
}