package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		path string
		want string
	}{
		{"/documentation/Kit/Box", filepath.Join("out", "documentation", "kit", "box.json")},
		{"/tutorials/Kit", filepath.Join("out", "tutorials", "kit.json")},
		{"/", filepath.Join("out", "index.json")},
	} {
		got := outputPath("out", semantic.NewIdentifier("com.example", tc.path, ""))
		assert.Equal(t, tc.want, got, tc.path)
	}
}
