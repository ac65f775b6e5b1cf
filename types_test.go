package bucketctl_test

import (
	"errors"
	"testing"

	"github.com/sagarc03/bucketctl"
	"github.com/stretchr/testify/assert"
)

func TestListResult_Keys(t *testing.T) {
	tests := []struct {
		name  string
		items []bucketctl.ObjectInfo
		want  []string
		size  int64
	}{
		{
			name:  "empty",
			items: nil,
			want:  []string{},
			size:  0,
		},
		{
			name: "keeps listing order",
			items: []bucketctl.ObjectInfo{
				{Key: "b", Size: 3},
				{Key: "a", Size: 4},
			},
			want: []string{"b", "a"},
			size: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bucketctl.ListResult{Items: tt.items}
			assert.Equal(t, tt.want, r.Keys())
			assert.Equal(t, tt.size, r.TotalSize())
		})
	}
}

func TestDeleteResult_Failed(t *testing.T) {
	r := bucketctl.DeleteResult{
		Outcomes: []bucketctl.DeleteOutcome{
			{Key: "a", Deleted: true},
			{Key: "b", Err: errors.New("denied")},
			{Key: "c", Deleted: true},
		},
	}

	failed := r.Failed()
	assert.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].Key)

	assert.Empty(t, (&bucketctl.DeleteResult{}).Failed())
}
