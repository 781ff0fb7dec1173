package tree

import (
	"testing"

	"github.com/dastanaron/favorites/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveNode(t *testing.T) {
	tests := []struct {
		name      string
		src       models.Address
		target    models.Address
		placement Placement
		wantAddr  models.Address
		want      []any
	}{
		{
			name: "before sibling later in same parent",
			src:  addr{2}, target: addr{0}, placement: Before,
			wantAddr: addr{0},
			want:     []any{[]any{"C"}, []any{"A", "a1", []any{"B", "b1"}}, "top"},
		},
		{
			name: "after sibling earlier in same parent",
			src:  addr{0}, target: addr{1}, placement: After,
			wantAddr: addr{1},
			want:     []any{"top", []any{"A", "a1", []any{"B", "b1"}}, []any{"C"}},
		},
		{
			name: "after last sibling",
			src:  addr{0}, target: addr{2}, placement: After,
			wantAddr: addr{2},
			want:     []any{"top", []any{"C"}, []any{"A", "a1", []any{"B", "b1"}}},
		},
		{
			name: "into folder",
			src:  addr{1}, target: addr{2}, placement: IntoFolder,
			wantAddr: addr{1, 0},
			want:     []any{[]any{"A", "a1", []any{"B", "b1"}}, []any{"C", "top"}},
		},
		{
			name: "deep node before a top level node",
			src:  addr{0, 1, 0}, target: addr{1}, placement: Before,
			wantAddr: addr{1},
			want:     []any{[]any{"A", "a1", []any{"B"}}, "b1", "top", []any{"C"}},
		},
		{
			name: "top level node into nested folder after earlier removal shifts",
			src:  addr{0}, target: addr{2}, placement: IntoFolder,
			wantAddr: addr{1, 0},
			want:     []any{"top", []any{"C", []any{"A", "a1", []any{"B", "b1"}}}},
		},
		{
			name: "append to root ignores target",
			src:  addr{0, 1}, target: nil, placement: AppendToRoot,
			wantAddr: addr{3},
			want:     []any{[]any{"A", "a1"}, "top", []any{"C"}, []any{"B", "b1"}},
		},
		{
			name: "folder out to the root next to its former parent",
			src:  addr{0, 1}, target: addr{0}, placement: After,
			wantAddr: addr{1},
			want:     []any{[]any{"A", "a1"}, []any{"B", "b1"}, "top", []any{"C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample(t)
			moved, err := s.Resolve(tt.src)
			require.NoError(t, err)

			got, err := s.MoveNode(tt.src, tt.target, tt.placement)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, got)
			assert.Equal(t, tt.want, names(s.Forest()))

			n, err := s.Resolve(got)
			require.NoError(t, err)
			assert.Same(t, moved, n)
		})
	}
}

func TestMoveNodeRejectsCycles(t *testing.T) {
	cases := []struct {
		name      string
		src       models.Address
		target    models.Address
		placement Placement
	}{
		{"into itself", addr{0}, addr{0}, IntoFolder},
		{"into own child folder", addr{0}, addr{0, 1}, IntoFolder},
		{"before own descendant", addr{0}, addr{0, 1, 0}, Before},
		{"after itself", addr{0, 1}, addr{0, 1}, After},
		{"link onto itself", addr{1}, addr{1}, Before},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s := sample(t)
			forest := append([]models.Node(nil), s.Forest()...)
			a := s.Forest()[0].(*models.Folder)
			aChildren := append([]models.Node(nil), a.Children...)
			before := names(s.Forest())

			_, err := s.MoveNode(tt.src, tt.target, tt.placement)
			assert.ErrorIs(t, err, ErrCyclicMove)

			assert.Equal(t, before, names(s.Forest()))
			require.Len(t, s.Forest(), len(forest))
			for i := range forest {
				assert.Same(t, forest[i], s.Forest()[i])
			}
			for i := range aChildren {
				assert.Same(t, aChildren[i], a.Children[i])
			}
		})
	}
}

func TestMoveNodeInvalid(t *testing.T) {
	s := sample(t)
	before := names(s.Forest())

	_, err := s.MoveNode(models.Root, addr{0}, Before)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = s.MoveNode(addr{9}, addr{0}, Before)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = s.MoveNode(addr{2}, addr{1}, IntoFolder)
	assert.ErrorIs(t, err, ErrInvalidAddress, "target is a link")
	_, err = s.MoveNode(addr{2}, addr{0, 7}, After)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = s.MoveNode(addr{2}, addr{0}, Placement(42))
	assert.Error(t, err)

	assert.Equal(t, before, names(s.Forest()))
}

func TestMoveNodeIdentityGuard(t *testing.T) {
	s := sample(t)
	a := s.Forest()[0].(*models.Folder)
	b := a.Children[1].(*models.Folder)

	// Constructed so the prefix check passes but the destination folder is
	// still inside the moved subtree.
	s.forest = append(s.forest, b)
	_, err := s.MoveNode(addr{0}, addr{3}, IntoFolder)
	assert.ErrorIs(t, err, ErrCyclicMove)
	assert.Len(t, s.Forest(), 4)
}

func TestRemoveWithReparentToRoot(t *testing.T) {
	s := sample(t)
	require.NoError(t, s.RemoveWithReparentToRoot(addr{0}))
	assert.Equal(t, []any{"top", []any{"C"}, "a1", []any{"B", "b1"}}, names(s.Forest()))

	require.NoError(t, s.RemoveWithReparentToRoot(addr{0}))
	assert.Equal(t, []any{[]any{"C"}, "a1", []any{"B", "b1"}}, names(s.Forest()))

	require.NoError(t, s.RemoveWithReparentToRoot(addr{2}))
	assert.Equal(t, []any{[]any{"C"}, "a1", "b1"}, names(s.Forest()))

	assert.ErrorIs(t, s.RemoveWithReparentToRoot(addr{5}), ErrInvalidAddress)
}

func TestPlacementParse(t *testing.T) {
	for _, p := range []Placement{Before, After, IntoFolder, AppendToRoot} {
		got, err := ParsePlacement(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePlacement("sideways")
	assert.Error(t, err)
	assert.Equal(t, "Placement(9)", Placement(9).String())
}
