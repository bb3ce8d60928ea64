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

// Package providers enumerates the supported response encodings
package providers

import (
	"strconv"
	"strings"
)

const (
	Zstandard Provider = 1 << iota
	Brotli             // 2
	GZip               // 4
	Deflate            // 8
	Identity  Provider = 0 // no encoding

	// for use in headers
	ZstandardValue = "zstd"
	BrotliValue    = "br"
	GZipValue      = "gzip"
	DeflateValue   = "deflate"
	// might be used in configs
	ZstandardAltValue = "zstandard"
	BrotliAltValue    = "brotli"
)

type (
	// Provider is a bitmap of encodings
	Provider byte
	// Lookup maps encoding names to their Provider bit
	Lookup map[string]Provider
)

// preference order when negotiating, best first
var preferenceOrder = []Provider{Zstandard, Brotli, GZip, Deflate}

var providerValLookup = map[Provider]string{
	Zstandard: ZstandardValue,
	Brotli:    BrotliValue,
	GZip:      GZipValue,
	Deflate:   DeflateValue,
}

var providerLookup = Lookup{
	ZstandardValue:    Zstandard,
	ZstandardAltValue: Zstandard,
	BrotliValue:       Brotli,
	BrotliAltValue:    Brotli,
	GZipValue:         GZip,
	DeflateValue:      Deflate,
}

func (p Provider) String() string {
	if v, ok := providerValLookup[p]; ok {
		return v
	}
	return strconv.Itoa(int(p))
}

// ProviderID returns the bit value of the provided encoding provider name
func ProviderID(providerName string) Provider {
	if b, ok := providerLookup[providerName]; ok {
		return b
	}
	return Identity
}

// AcceptedProviders converts an Accept-Encoding header value into a bitmap
// of the supported encodings it names
func AcceptedProviders(acceptedEncodings string) Provider {
	var b Provider
	if acceptedEncodings == "" {
		return b
	}
	for _, enc := range strings.Split(acceptedEncodings, ",") {
		enc = strings.TrimSpace(enc)
		// quality values are ignored; presence implies acceptance
		if i := strings.IndexByte(enc, ';'); i >= 0 {
			enc = strings.TrimSpace(enc[:i])
		}
		if v, ok := providerLookup[enc]; ok {
			b |= v
		}
	}
	return b
}

// Negotiate selects the best supported encoding from the client's
// Accept-Encoding header value, or Identity when none is compatible
func Negotiate(acceptedEncodings string) Provider {
	b := AcceptedProviders(acceptedEncodings)
	if b == 0 {
		return Identity
	}
	for _, p := range preferenceOrder {
		if b&p == p {
			return p
		}
	}
	return Identity
}
