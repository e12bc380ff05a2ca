// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xjs implements DJS, a JSON superset that preserves comments and
// blank lines across a parse/edit/write round trip.
//
// [Parse] reads either DJS or strict JSON into a [Value] DOM that records
// the blank-line runs and comments around each value. Other whitespace and
// trailing commas are not recorded; the writer lays them out anew from its
// [WriterOptions]. Programs can mutate the DOM in place and call
// [WriteValue] (or the [WriteDJS] shorthand) to reflow it without losing
// attached comments; [WriteJSON] and [Minimize] drop comments.
// [Standardize] and [NewStandardizer] convert DJS to strict JSON for
// consumption by "encoding/json" and similar.
package xjs
