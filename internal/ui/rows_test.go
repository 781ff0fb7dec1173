package ui

import (
	"testing"

	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleStore builds A/(a1, B/(b1)), top, C/
func sampleStore(t *testing.T) *tree.Store {
	t.Helper()
	s := tree.NewStore("X", "")
	a, err := s.AddFolder(models.Root)
	require.NoError(t, err)
	require.NoError(t, s.Rename(a, "A"))
	_, err = s.AddLink(a, "a1", "a1.com")
	require.NoError(t, err)
	b, err := s.AddFolder(a)
	require.NoError(t, err)
	require.NoError(t, s.Rename(b, "B"))
	_, err = s.AddLink(b, "b1", "b1.com")
	require.NoError(t, err)
	_, err = s.AddLink(models.Root, "top", "top.com")
	require.NoError(t, err)
	c, err := s.AddFolder(models.Root)
	require.NoError(t, err)
	require.NoError(t, s.Rename(c, "C"))
	return s
}

func TestBuildRows(t *testing.T) {
	rows := buildRows(sampleStore(t))
	require.Len(t, rows, 7)

	assert.True(t, rows[0].isRoot())
	assert.True(t, rows[0].addr.IsRoot())

	var labels []string
	for _, r := range rows {
		labels = append(labels, rowLabel(r, "Company Resources"))
	}
	assert.Equal(t, []string{
		"📁 Company Resources",
		"└─ 📁 A",
		"  └─ a1",
		"  └─ 📁 B",
		"    └─ b1",
		"└─ top",
		"└─ 📁 C",
	}, labels)

	assert.Equal(t, models.Address{0, 1, 0}, rows[4].addr)
	assert.Equal(t, 3, rows[4].depth)
}

func TestRowLabelPlaceholders(t *testing.T) {
	s := tree.NewStore("", "")
	_, err := s.AddFolder(models.Root)
	require.NoError(t, err)
	_, err = s.AddLink(models.Root, "", "")
	require.NoError(t, err)

	rows := buildRows(s)
	assert.Equal(t, "└─ 📁 "+tree.UnnamedFolderLabel, rowLabel(rows[1], ""))
	assert.Equal(t, "└─ (unnamed link)", rowLabel(rows[2], ""))
	assert.Equal(t, "about:invalid", displayURL(rows[2].node.(*models.Link)))
}

func TestParentFor(t *testing.T) {
	rows := buildRows(sampleStore(t))

	assert.Equal(t, models.Root, parentFor(rows[0]))
	assert.Equal(t, models.Address{0}, parentFor(rows[1]), "folder selects itself")
	assert.Equal(t, models.Address{0}, parentFor(rows[2]), "link selects its parent")
	assert.Equal(t, models.Address{0, 1}, parentFor(rows[3]))
	assert.True(t, parentFor(rows[5]).IsRoot())
}

func TestIndexOf(t *testing.T) {
	rows := buildRows(sampleStore(t))

	assert.Equal(t, 3, indexOf(rows, models.Address{0, 1}))
	assert.Equal(t, 6, indexOf(rows, models.Address{2}))
	assert.Equal(t, 0, indexOf(rows, models.Address{9}))
	assert.Equal(t, 0, indexOf(rows, models.Root))
}

func TestFolderChoices(t *testing.T) {
	s := sampleStore(t)

	labels, addrs := folderChoices(s)
	assert.Equal(t, []string{"Company Resources", "  A", "    B", "  C"}, labels)
	require.Len(t, addrs, 4)
	assert.True(t, addrs[0].IsRoot())
	assert.Equal(t, models.Address{0, 1}, addrs[2])

	s.SetRootName("Intranet")
	labels, _ = folderChoices(s)
	assert.Equal(t, "Intranet", labels[0])
}

func TestMoveTargets(t *testing.T) {
	rows := buildRows(sampleStore(t))

	labels, addrs := moveTargets(rows, models.Address{0}, "Company Resources")
	assert.Equal(t, []string{"1  └─ top", "2  └─ 📁 C"}, labels)
	assert.Equal(t, []models.Address{{1}, {2}}, addrs)

	_, addrs = moveTargets(rows, models.Address{0, 0}, "Company Resources")
	assert.Len(t, addrs, 5, "a link only excludes itself")
	for _, a := range addrs {
		assert.False(t, a.Equal(models.Address{0, 0}))
	}
}
