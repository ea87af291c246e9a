// Copyright 2025 Poiesic Systems
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


package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted index artifacts. The metadata table
// and the vector block are flat enough that the serializers are written
// by hand against the mus-go primitives rather than generated.

// ChunkRecordMUS serializes ChunkRecord values for the metadata artifact.
var ChunkRecordMUS = chunkRecordSer{}

// VectorMUS serializes embedding vectors for the vector artifact.
// Elements are fixed-width little-endian float32 values behind a varint
// length prefix.
var VectorMUS = vectorSer{}

type chunkRecordSer struct{}

func (chunkRecordSer) Marshal(r ChunkRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Document, bs)
	n += ord.String.Marshal(r.Text, bs[n:])
	return
}

func (chunkRecordSer) Unmarshal(bs []byte) (r ChunkRecord, n int, err error) {
	r.Document, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkRecordSer) Size(r ChunkRecord) (size int) {
	return ord.String.Size(r.Document) + ord.String.Size(r.Text)
}

func (chunkRecordSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

type vectorSer struct{}

func (vectorSer) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func (vectorSer) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	if length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (vectorSer) Size(v []float32) (size int) {
	return varint.Int.Size(len(v)) + len(v)*raw.Float32.Size(0)
}

func (vectorSer) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		return n, ErrNegativeLength
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = raw.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
