package integration_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusjob_backend/internal/models"
	chatmodels "nexusjob_backend/internal/models/chat"
	"nexusjob_backend/internal/services/dto"
	"nexusjob_backend/test/helpers"
)

// waitForChat polls the application's chat endpoint until the chat shows
// up. Chat provisioning happens asynchronously after acceptance.
func waitForChat(t *testing.T, ts *helpers.TestServer, applicationID, token string) *dto.ChatResponse {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/applications/"+applicationID+"/chat", token, nil)
		if res.StatusCode == http.StatusOK {
			var chat dto.ChatResponse
			require.NoError(t, json.Unmarshal([]byte(body), &chat))
			return &chat
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("chat for application %s never appeared", applicationID)
	return nil
}

func TestAcceptanceCreatesChatExactlyOnce(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	employer, employerToken := helpers.CreateEmployer(t, ts.DB, "Acme HR", "Acme Inc.")
	seeker, seekerToken := helpers.CreateSeeker(t, ts.DB, "Jane Seeker")
	job := helpers.CreateTestJob(t, ts.DB, employer.ID, "Acme Inc.", "Backend Engineer")
	application := helpers.CreateTestApplication(t, ts.DB, job.ID, seeker.ID, seeker.Name, models.ApplicationStatusPending)

	// No chat before acceptance.
	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/applications/"+application.ID+"/chat", seekerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	statusBody := map[string]interface{}{"status": "Accepted"}
	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/applications/"+application.ID+"/status", employerToken, statusBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	chat := waitForChat(t, ts, application.ID, seekerToken)
	assert.Equal(t, employer.ID, chat.EmployerID)
	assert.Equal(t, seeker.ID, chat.SeekerID)
	assert.Equal(t, "Backend Engineer", chat.JobTitle)

	// Re-accepting does not create a second chat.
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/applications/"+application.ID+"/status", employerToken, statusBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	time.Sleep(200 * time.Millisecond)

	var count int64
	require.NoError(t, ts.DB.Model(&chatmodels.Chat{}).Where("application_id = ?", application.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Both participants see the chat in their lists.
	for _, token := range []string{employerToken, seekerToken} {
		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var chats []*dto.ChatResponse
		require.NoError(t, json.Unmarshal([]byte(body), &chats))
		require.Len(t, chats, 1)
		assert.Equal(t, chat.ID, chats[0].ID)
	}
}

func TestChatMessagingAndReadTracking(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	employer, employerToken := helpers.CreateEmployer(t, ts.DB, "Acme HR", "Acme Inc.")
	seeker, seekerToken := helpers.CreateSeeker(t, ts.DB, "Jane Seeker")
	job := helpers.CreateTestJob(t, ts.DB, employer.ID, "Acme Inc.", "Backend Engineer")
	application := helpers.CreateTestApplication(t, ts.DB, job.ID, seeker.ID, seeker.Name, models.ApplicationStatusPending)

	statusBody := map[string]interface{}{"status": "Accepted"}
	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/applications/"+application.ID+"/status", employerToken, statusBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	chat := waitForChat(t, ts, application.ID, employerToken)

	// Employer opens the conversation.
	msgBody := map[string]interface{}{"content": "Hello, thanks for applying!"}
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chats/"+chat.ID+"/messages", employerToken, msgBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var sent dto.MessageResponse
	require.NoError(t, json.Unmarshal([]byte(body), &sent))
	assert.Equal(t, employer.ID, sent.SenderID)
	assert.Equal(t, "Hello, thanks for applying!", sent.Content)
	assert.False(t, sent.Read)

	// The seeker sees the message and the unread counter.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID+"/messages", seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var page dto.MessageListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Messages, 1)
	assert.False(t, page.HasMore)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID, seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var fetched dto.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(body), &fetched))
	assert.Equal(t, 1, fetched.UnreadCount)
	assert.Equal(t, "Hello, thanks for applying!", fetched.LastMessage)

	// Marking read clears the counter and flips the peer message's flag.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chats/"+chat.ID+"/read", seekerToken, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID, seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &fetched))
	assert.Equal(t, 0, fetched.UnreadCount)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID+"/messages", seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Messages, 1)
	assert.True(t, page.Messages[0].Read)

	// Marking read a second time is a no-op.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chats/"+chat.ID+"/read", seekerToken, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID, seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &fetched))
	assert.Equal(t, 0, fetched.UnreadCount)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID+"/messages", seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Messages, 1)
	assert.True(t, page.Messages[0].Read)
}

func TestChatListOrderedByActivityNullsLast(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	employer, _ := helpers.CreateEmployer(t, ts.DB, "Acme HR", "Acme Inc.")
	seeker, seekerToken := helpers.CreateSeeker(t, ts.DB, "Jane Seeker")

	apps := make([]*models.Application, 3)
	for i, title := range []string{"Job A", "Job B", "Job C"} {
		job := helpers.CreateTestJob(t, ts.DB, employer.ID, "Acme Inc.", title)
		apps[i] = helpers.CreateTestApplication(t, ts.DB, job.ID, seeker.ID, seeker.Name, models.ApplicationStatusAccepted)
	}

	older := time.Now().Add(-time.Hour)
	newer := time.Now().Add(-time.Minute)

	// Inserted in the opposite of the expected order, so insertion order
	// cannot mask a broken sort.
	silent := helpers.CreateTestChat(t, ts.DB, apps[0].ID, employer.ID, seeker.ID, "Job A", nil)
	second := helpers.CreateTestChat(t, ts.DB, apps[1].ID, employer.ID, seeker.ID, "Job B", &older)
	first := helpers.CreateTestChat(t, ts.DB, apps[2].ID, employer.ID, seeker.ID, "Job C", &newer)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/chats", seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var chats []*dto.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(body), &chats))
	require.Len(t, chats, 3)

	// Most recent activity first; the never-used chat sorts last.
	assert.Equal(t, first.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)
	assert.Equal(t, silent.ID, chats[2].ID)
	assert.Nil(t, chats[2].LastMessageAt)
}

func TestChatAccessDeniedForStranger(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	employer, employerToken := helpers.CreateEmployer(t, ts.DB, "Acme HR", "Acme Inc.")
	seeker, _ := helpers.CreateSeeker(t, ts.DB, "Jane Seeker")
	_, strangerToken := helpers.CreateSeeker(t, ts.DB, "Mallory")
	job := helpers.CreateTestJob(t, ts.DB, employer.ID, "Acme Inc.", "Backend Engineer")
	application := helpers.CreateTestApplication(t, ts.DB, job.ID, seeker.ID, seeker.Name, models.ApplicationStatusPending)

	statusBody := map[string]interface{}{"status": "Accepted"}
	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/applications/"+application.ID+"/status", employerToken, statusBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	chat := waitForChat(t, ts, application.ID, employerToken)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	msgBody := map[string]interface{}{"content": "let me in"}
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chats/"+chat.ID+"/messages", strangerToken, msgBody)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestChatMessagePagination(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	employer, employerToken := helpers.CreateEmployer(t, ts.DB, "Acme HR", "Acme Inc.")
	seeker, _ := helpers.CreateSeeker(t, ts.DB, "Jane Seeker")
	job := helpers.CreateTestJob(t, ts.DB, employer.ID, "Acme Inc.", "Backend Engineer")
	application := helpers.CreateTestApplication(t, ts.DB, job.ID, seeker.ID, seeker.Name, models.ApplicationStatusPending)

	statusBody := map[string]interface{}{"status": "Accepted"}
	res, body := ts.SendRequest(t, http.MethodPut, "/api/v1/applications/"+application.ID+"/status", employerToken, statusBody)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	chat := waitForChat(t, ts, application.ID, employerToken)

	for _, content := range []string{"one", "two", "three"} {
		msgBody := map[string]interface{}{"content": content}
		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chats/"+chat.ID+"/messages", employerToken, msgBody)
		require.Equal(t, http.StatusCreated, res.StatusCode, body)
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID+"/messages?limit=2", employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var page dto.MessageListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "one", page.Messages[0].Content)
	assert.Equal(t, "two", page.Messages[1].Content)
	require.True(t, page.HasMore)
	require.NotNil(t, page.NextAfterSentAt)

	cursor := url.Values{}
	cursor.Set("limit", "2")
	cursor.Set("afterSentAt", page.NextAfterSentAt.Format(time.RFC3339Nano))
	cursor.Set("afterSeq", strconv.FormatInt(page.NextAfterSeq, 10))
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chats/"+chat.ID+"/messages?"+cursor.Encode(), employerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "three", page.Messages[0].Content)
	assert.False(t, page.HasMore)
}
