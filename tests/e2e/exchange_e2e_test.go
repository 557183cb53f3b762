package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createExchange отправляет запрос на обмен и возвращает его id
func createExchange(t *testing.T, token, targetId string) string {
	t.Helper()

	resp, body := doRequest(t, http.MethodPost, "/api/exchanges", token, map[string]any{
		"targetUser":    targetId,
		"skillsOffered": []string{"Go"},
		"skillsWanted":  []string{"Figma"},
		"message":       "let's trade skills",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create exchange failed: %v", body)

	data := body["data"].(map[string]interface{})
	exchange := data["exchange"].(map[string]interface{})
	return exchange["id"].(string)
}

// TestExchangeLifecycle проверяет цикл Pending -> Accepted -> Completed
func TestExchangeLifecycle(t *testing.T) {
	_, requesterToken := registerUser(t, "exch_requester", []string{"Go"})
	targetId, targetToken := registerUser(t, "exch_target", []string{"Figma"})

	exchangeId := createExchange(t, requesterToken, targetId)

	// Только адресат может ответить
	resp, body := doRequest(t, http.MethodPut, "/api/exchanges/"+exchangeId+"/respond", requesterToken, map[string]any{
		"action": "accept",
	})
	validateErrorResponse(t, resp, body, "FORBIDDEN", http.StatusForbidden)

	// Адресат принимает
	resp, body = doRequest(t, http.MethodPut, "/api/exchanges/"+exchangeId+"/respond", targetToken, map[string]any{
		"action": "accept",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "respond failed: %v", body)
	data := body["data"].(map[string]interface{})
	exchange := data["exchange"].(map[string]interface{})
	assert.Equal(t, "Accepted", exchange["status"])

	// Повторный ответ невозможен
	resp, body = doRequest(t, http.MethodPut, "/api/exchanges/"+exchangeId+"/respond", targetToken, map[string]any{
		"action": "reject",
	})
	validateErrorResponse(t, resp, body, "INVALID_STATE", http.StatusConflict)

	// Любой участник завершает
	resp, body = doRequest(t, http.MethodPut, "/api/exchanges/"+exchangeId+"/complete", requesterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "complete failed: %v", body)
	data = body["data"].(map[string]interface{})
	exchange = data["exchange"].(map[string]interface{})
	assert.Equal(t, "Completed", exchange["status"])
	assert.Equal(t, false, exchange["isVisible"])
}

// TestExchangeCreate_SelfAndDuplicate проверяет отказ по самообмену и дублю
func TestExchangeCreate_SelfAndDuplicate(t *testing.T) {
	requesterId, requesterToken := registerUser(t, "exch_dup_req", nil)
	targetId, _ := registerUser(t, "exch_dup_target", nil)

	// Обмен с самим собой запрещен
	resp, body := doRequest(t, http.MethodPost, "/api/exchanges", requesterToken, map[string]any{
		"targetUser":    requesterId,
		"skillsOffered": []string{"Go"},
		"skillsWanted":  []string{"Figma"},
	})
	validateErrorResponse(t, resp, body, "DUPLICATE", http.StatusConflict)

	createExchange(t, requesterToken, targetId)

	// Повторный запрос к тому же пользователю, пока жив первый
	resp, body = doRequest(t, http.MethodPost, "/api/exchanges", requesterToken, map[string]any{
		"targetUser":    targetId,
		"skillsOffered": []string{"Go"},
		"skillsWanted":  []string{"Figma"},
	})
	validateErrorResponse(t, resp, body, "DUPLICATE", http.StatusConflict)
}

// TestExchangeComplete_RequiresAccepted проверяет завершение только из Accepted
func TestExchangeComplete_RequiresAccepted(t *testing.T) {
	_, requesterToken := registerUser(t, "exch_pending_req", nil)
	targetId, _ := registerUser(t, "exch_pending_target", nil)

	exchangeId := createExchange(t, requesterToken, targetId)

	resp, body := doRequest(t, http.MethodPut, "/api/exchanges/"+exchangeId+"/complete", requesterToken, nil)
	validateErrorResponse(t, resp, body, "INVALID_STATE", http.StatusConflict)
}

// TestExchangeReject_HidesFromBrowse проверяет, что отклоненный обмен скрыт
func TestExchangeReject_HidesFromBrowse(t *testing.T) {
	_, requesterToken := registerUser(t, "exch_browse_req", nil)
	targetId, targetToken := registerUser(t, "exch_browse_target", nil)

	exchangeId := createExchange(t, requesterToken, targetId)

	resp, body := doRequest(t, http.MethodPut, "/api/exchanges/"+exchangeId+"/respond", targetToken, map[string]any{
		"action": "reject",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "reject failed: %v", body)

	// В общей витрине обмена больше нет
	resp, body = doRequest(t, http.MethodGet, "/api/exchanges/browse", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	exchanges, _ := data["exchanges"].([]interface{})
	for _, exchRaw := range exchanges {
		exchange := exchRaw.(map[string]interface{})
		assert.NotEqual(t, exchangeId, exchange["id"], "rejected exchange must be hidden")
	}

	// Но в истории участника он остается
	resp, body = doRequest(t, http.MethodGet, "/api/exchanges/user/"+targetId, targetToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	exchanges, _ = data["exchanges"].([]interface{})
	found := false
	for _, exchRaw := range exchanges {
		exchange := exchRaw.(map[string]interface{})
		if exchange["id"] == exchangeId {
			found = true
			assert.Equal(t, "Rejected", exchange["status"])
		}
	}
	assert.True(t, found, "participant history must keep rejected exchange")
}
