package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestYAML = `
version: "1"
name: storefront-admin
collections:
  - descriptor:
      code: admin.console.bookings
      name: Bookings
      topic: bookings-updated
      list_path: /admin/bookings
      actions:
        - kind: booking.update_status
          method: PATCH
          path: /admin/bookings/:id/status
          policy: patch
          required: [status]
    maintainers: [platform-team]
`

func TestDecodeManifest(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(manifestYAML))
	require.NoError(t, err)
	require.Len(t, doc.Collections, 1)

	assert.Equal(t, ManifestVersion, doc.Version)
	desc := doc.Collections[0].Descriptor
	assert.Equal(t, "admin.console.bookings", desc.Code)
	assert.Equal(t, "bookings-updated", desc.Topic)
	require.Len(t, desc.Actions, 1)
	assert.Equal(t, ApplyPolicyPatch, desc.Actions[0].Policy)
}

func TestDecodeManifestRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"bad version":    "version: \"7\"\ncollections: []\n",
		"missing code":   "version: \"1\"\ncollections:\n  - descriptor:\n      name: Bookings\n",
		"unknown field":  "version: \"1\"\nbogus: true\ncollections: []\n",
		"invalid policy": "version: \"1\"\ncollections:\n  - descriptor:\n      code: c\n      name: C\n      list_path: /c\n      actions:\n        - kind: c.do\n          policy: maybe\n",
		"duplicate code": "version: \"1\"\ncollections:\n  - descriptor:\n      code: c\n      name: C\n      list_path: /c\n  - descriptor:\n      code: c\n      name: C2\n      list_path: /c2\n",
	}
	for name, input := range cases {
		_, err := DecodeManifest(strings.NewReader(input))
		assert.Error(t, err, name)
	}
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(manifestYAML))
	require.NoError(t, err)

	reg := NewEmptyRegistry()
	require.NoError(t, reg.LoadManifestDocument(doc))

	_, ok := reg.Descriptor("admin.console.bookings")
	assert.True(t, ok)
	assert.Error(t, reg.LoadManifestDocument(nil))
}
