/*
 * Copyright 2024 The Switchyard Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package deflate provides deflate capabilities for byte slices
package deflate

import (
	"bytes"
	"compress/flate"
	"io"
)

// Decode returns the decoded version of the encoded byte slice
func Decode(in []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(in))
	defer fr.Close()
	return io.ReadAll(fr)
}

// Encode returns the encoded version of the byte slice
func Encode(in []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(in)))
	fw, err := flate.NewWriter(buf, -1)
	if err != nil {
		return nil, err
	}
	_, err = fw.Write(in)
	fw.Close()
	return buf.Bytes(), err
}

// NewEncoder returns a streaming deflate encoder over w
func NewEncoder(w io.Writer, level int) io.WriteCloser {
	if level == 0 {
		level = -1
	}
	fw, _ := flate.NewWriter(w, level)
	return fw
}
