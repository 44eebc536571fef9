// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// cursor is a bounds-checked forward-only reader over a class file's raw
// bytes, a self-advancing cursor over sequential ReadUint8/16/32/64
// calls, since the class-file grammar is a strict top-to-bottom walk
// rather than random-access RVA lookups.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) u1() (uint8, error) {
	if c.pos+1 > len(c.data) {
		return 0, fmt.Errorf("truncated class file at offset %d reading u1", c.pos)
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u2() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, fmt.Errorf("truncated class file at offset %d reading u2", c.pos)
	}
	v := uint16(c.data[c.pos])<<8 | uint16(c.data[c.pos+1])
	c.pos += 2
	return v, nil
}

func (c *cursor) s2() (int16, error) {
	v, err := c.u2()
	return int16(v), err
}

func (c *cursor) u4() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, fmt.Errorf("truncated class file at offset %d reading u4", c.pos)
	}
	v := uint32(c.data[c.pos])<<24 | uint32(c.data[c.pos+1])<<16 |
		uint32(c.data[c.pos+2])<<8 | uint32(c.data[c.pos+3])
	c.pos += 4
	return v, nil
}

func (c *cursor) s4() (int32, error) {
	v, err := c.u4()
	return int32(v), err
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("truncated class file at offset %d reading %d bytes", c.pos, n)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	_, err := c.bytes(n)
	return err
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}
