// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestParseCaptureTime tests tag priority and date layouts
func TestParseCaptureTime(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "datetime_original",
			out:  `[{"SourceFile":"a.jpg","EXIF:DateTimeOriginal":"2022:05:14 09:30:00"}]`,
			want: time.Date(2022, time.May, 14, 9, 30, 0, 0, time.Local),
		},
		{
			name: "create_date_fallback",
			out:  `[{"SourceFile":"a.jpg","EXIF:CreateDate":"2021:01:02 10:00:00"}]`,
			want: time.Date(2021, time.January, 2, 10, 0, 0, 0, time.Local),
		},
		{
			name: "original_wins_over_create_date",
			out: `[{"EXIF:CreateDate":"2021:01:02 10:00:00",
				"EXIF:DateTimeOriginal":"2020:06:07 08:09:10"}]`,
			want: time.Date(2020, time.June, 7, 8, 9, 10, 0, time.Local),
		},
		{
			name: "quicktime_with_zone",
			out:  `[{"File:MIMEType":"video/quicktime","QuickTime:CreationDate":"2023:07:01 12:00:00+02:00"}]`,
			want: time.Date(2023, time.July, 1, 12, 0, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name:    "empty_array",
			out:     `[]`,
			wantErr: true,
		},
		{
			name:    "no_date_tags",
			out:     `[{"SourceFile":"a.bin","File:MIMEType":"application/octet-stream"}]`,
			wantErr: true,
		},
		{
			name:    "malformed_date",
			out:     `[{"EXIF:DateTimeOriginal":"0000:00:00 00:00:00"}]`,
			wantErr: true,
		},
		{
			name:    "not_json",
			out:     `Error: file not found`,
			wantErr: true,
		},
		{
			name:    "numeric_tag_ignored",
			out:     `[{"EXIF:DateTimeOriginal":12345}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCaptureTime([]byte(tt.out))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoMetadata), "expected ErrNoMetadata, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

// 🧪 TestNewExifToolMissing tests that a missing binary is ToolUnavailable
func TestNewExifToolMissing(t *testing.T) {
	_, err := NewExifTool("definitely-not-a-real-binary-name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolUnavailable))
}
