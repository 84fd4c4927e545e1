// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gate decides whether a work item may be processed.
package gate

import (
	"os"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

// Decision is the verdict for one item.
type Decision struct {
	// Pass is true when the item may be converted.
	Pass bool

	// MetaPath is the companion that was checked, empty when the check is
	// disabled.
	MetaPath string
}

// Check passes every item when ext is empty. Otherwise the companion
// <dir>/<base>.<ext> must exist as a regular file.
func Check(item types.WorkItem, ext string) Decision {
	if ext == "" {
		return Decision{Pass: true}
	}
	metaPath := item.MetaPath
	if metaPath == "" {
		metaPath = item.CompanionPath(ext)
	}
	info, err := os.Stat(metaPath)
	return Decision{
		Pass:     err == nil && info.Mode().IsRegular(),
		MetaPath: metaPath,
	}
}
