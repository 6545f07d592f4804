package model

import "testing"

func TestUploadTask_GetDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		task     UploadTask
		expected string
	}{
		{
			name:     "Local path with extension",
			task:     UploadTask{LocalPath: "/home/user/photos/beach.jpg"},
			expected: "beach",
		},
		{
			name:     "Windows separators",
			task:     UploadTask{LocalPath: `C:\Photos\family dinner.png`},
			expected: "family dinner",
		},
		{
			name:     "Falls back to remote path",
			task:     UploadTask{RemotePath: "thumbnails/beach.jpg"},
			expected: "beach",
		},
		{
			name:     "Empty task",
			task:     UploadTask{},
			expected: "",
		},
		{
			name:     "Hidden file keeps its name",
			task:     UploadTask{LocalPath: "/tmp/.hidden"},
			expected: ".hidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.GetDisplayName(); got != tt.expected {
				t.Errorf("GetDisplayName() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
