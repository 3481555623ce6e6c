// Copyright 2025 Treeline Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package streamrpc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// FrameMaxPayloadLength is the largest payload a single frame can carry
const FrameMaxPayloadLength = 0xffffff

// Frame flags
const (
	// FrameFlagError marks a response whose payload is a BackendError
	FrameFlagError uint16 = 0x0001
	// FrameFlagOneWay marks a frame that expects no response
	FrameFlagOneWay uint16 = 0x0002
)

// Operation codes carried in the frame header
const (
	OpCodeRegisterState uint16 = iota + 1
	OpCodeGetNodes
	OpCodeGetNodesCount
	OpCodeGetNodesAndCount
	OpCodeGetNodePaths
	OpCodeGetFilteredNodePaths
	OpCodeGetContentDescriptor
	OpCodeGetContentSetSize
	OpCodeGetContent
	OpCodeGetContentAndSize
	OpCodeGetDistinctValues
	OpCodeGetDisplayLabel
	OpCodeGetDisplayLabels
)

// FrameHeader is the fixed-size header preceding every payload on the wire.
// All fields are big-endian. Responses echo the RequestID of the request
// they answer
type FrameHeader struct {
	RequestID     uint32
	OpCode        uint16
	Flags         uint16
	PayloadLength uint32
}

// Frame is a single protocol frame: a header plus its CBOR payload
type Frame struct {
	FrameHeader
	Payload []byte
}

// NewFrame creates a frame for the given payload. Returns nil when the
// payload exceeds FrameMaxPayloadLength
func NewFrame(
	requestID uint32,
	opCode uint16,
	flags uint16,
	payload []byte,
) *Frame {
	if len(payload) > FrameMaxPayloadLength {
		return nil
	}
	return &Frame{
		FrameHeader: FrameHeader{
			RequestID:     requestID,
			OpCode:        opCode,
			Flags:         flags,
			PayloadLength: uint32(len(payload)), // #nosec G115
		},
		Payload: payload,
	}
}

// IsError returns true when the frame carries a backend failure
func (h *FrameHeader) IsError() bool {
	return h.Flags&FrameFlagError > 0
}

// IsOneWay returns true when the frame expects no response
func (h *FrameHeader) IsOneWay() bool {
	return h.Flags&FrameFlagOneWay > 0
}

// ReadFrame reads a single frame. The payload length is validated against
// FrameMaxPayloadLength before any payload allocation
func ReadFrame(r io.Reader) (*Frame, error) {
	header := FrameHeader{}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}
	if header.PayloadLength > FrameMaxPayloadLength {
		return nil, fmt.Errorf(
			"frame payload length %d exceeds maximum %d",
			header.PayloadLength,
			FrameMaxPayloadLength,
		)
	}
	frame := &Frame{
		FrameHeader: header,
		Payload:     make([]byte, header.PayloadLength),
	}
	// ReadFull guarantees to read the expected number of bytes or return an
	// error
	if _, err := io.ReadFull(r, frame.Payload); err != nil {
		return nil, err
	}
	return frame, nil
}

// WriteFrame writes a single frame
func WriteFrame(w io.Writer, frame *Frame) error {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.BigEndian, frame.FrameHeader); err != nil {
		return err
	}
	buf.Write(frame.Payload)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}
