package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

func TestEnvelope_Decode(t *testing.T) {
	t.Run("decodes_item_page", func(t *testing.T) {
		var env domain.Envelope
		raw := `{"success":true,"data":{"content":[{"itemId":1,"itemName":"Widget"}],"totalPages":3,"totalElements":21}}`
		require.NoError(t, json.Unmarshal([]byte(raw), &env))

		var page domain.ItemPage
		require.NoError(t, env.Decode(&page))
		assert.True(t, env.Success)
		assert.Equal(t, 3, page.TotalPages)
		assert.EqualValues(t, 21, page.TotalElements)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Widget", page.Content[0].Name)
	})

	t.Run("null_data_leaves_destination_untouched", func(t *testing.T) {
		env := domain.Envelope{Success: false, Message: "Item not found", Data: json.RawMessage("null")}
		page := domain.ItemPage{TotalPages: 9}
		require.NoError(t, env.Decode(&page))
		assert.Equal(t, 9, page.TotalPages)
	})

	t.Run("mismatched_data_is_an_error", func(t *testing.T) {
		env := domain.Envelope{Success: true, Data: json.RawMessage(`"oops"`)}
		var page domain.ItemPage
		assert.Error(t, env.Decode(&page))
	})
}

func TestDecodeLogEntries(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
	}{
		{name: "paginated_payload", data: `{"content":[{"logId":1,"action":"CREATE"},{"logId":2,"action":"DELETE"}]}`, wantLen: 2},
		{name: "bare_array", data: `[{"logId":1,"action":"LOGIN"}]`, wantLen: 1},
		{name: "page_without_content", data: `{"totalPages":0}`, wantLen: 0},
		{name: "null_payload", data: `null`, wantLen: 0},
		{name: "empty_payload", data: ``, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := domain.DecodeLogEntries(json.RawMessage(tt.data))
			require.NoError(t, err)
			assert.NotNil(t, entries)
			assert.Len(t, entries, tt.wantLen)
		})
	}
}

func TestSession_Notices(t *testing.T) {
	sess := domain.NewSession("tok", domain.UserProfile{FullName: "Ali", Role: domain.RoleAdmin}, 0)

	assert.Equal(t, domain.DefaultPageSize, sess.View.PageSize)
	assert.True(t, sess.User.IsAdmin())

	sess.AddNotice(domain.NoticeDanger, "Connection error")
	sess.AddNotice(domain.NoticeSuccess, "Item added successfully")

	notices := sess.TakeNotices()
	require.Len(t, notices, 2)
	assert.Equal(t, domain.NoticeDanger, notices[0].Level)
	assert.Empty(t, sess.TakeNotices())
}
