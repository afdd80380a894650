// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

func TestCloneAllocatesFreshIDs(t *testing.T) {
	gen := ids.NewGenerator()
	orig := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	text := NewRawText(gen, diag.Location{}, "hi")
	orig.AppendChild(text)

	clone := Clone(gen, orig)

	require.NotEqual(t, orig.ID(), clone.ID())
	require.NotEqual(t, text.ID(), clone.Children()[0].ID())
	require.Nil(t, clone.Parent())
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	gen := ids.NewGenerator()
	orig := NewRawText(gen, diag.Location{}, "hi")

	clone := Clone(gen, orig)
	clone.Data.(*RawTextData).Text = "bye"

	require.Equal(t, "hi", orig.Data.(*RawTextData).Text)
	require.Equal(t, "bye", clone.Data.(*RawTextData).Text)
}
