package integration_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rupeestream_backend/internal/models"
	"rupeestream_backend/test/helpers"
)

func submitCompletion(t *testing.T, ts *helpers.TestServer, token, taskID string) (*http.Response, string) {
	t.Helper()
	return ts.SendRequest(t, "POST", "/api/v1/completions", token, map[string]interface{}{
		"taskId": taskID,
		"proofData": map[string]interface{}{
			"screenshot_note": "installed and opened the app",
		},
		"proofImages": []string{"proofs/u/1.png"},
	})
}

// TestSubmitCompletion_KYCGate - без одобренного KYC задания закрыты
func TestSubmitCompletion_KYCGate(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterUser(t, ts, "kycgate", "")
	task := helpers.CreateTask(t, ts.DB, "Install app", decimal.NewFromInt(25))

	res, bodyStr := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, `"errorType":"kyc_pending"`)
}

// TestSubmitCompletion_SuspendedGate - приостановленный аккаунт тоже закрыт
func TestSubmitCompletion_SuspendedGate(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "suspgate")
	task := helpers.CreateTask(t, ts.DB, "Install app", decimal.NewFromInt(25))

	err := ts.DB.Model(&models.User{}).Where("id = ?", user.User.ID).
		Update("status", models.UserStatusSuspended).Error
	assert.NoError(t, err)

	res, bodyStr := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, `"errorType":"suspended"`)
}

// TestSubmitCompletion_DuplicatePending - повторный сабмит той же задачи
func TestSubmitCompletion_DuplicatePending(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "dupsubmit")
	task := helpers.CreateTask(t, ts.DB, "Write review", decimal.NewFromInt(30))

	res, _ := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "already under review")
}

// TestApproveCompletion_CreditsOnce - одобрение начисляет награду ровно
// один раз, повторное одобрение упирается в условный UPDATE.
func TestApproveCompletion_CreditsOnce(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "approve")
	reward := decimal.NewFromInt(40)
	task := helpers.CreateTask(t, ts.DB, "Subscribe to channel", reward)

	res, _ := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var completion models.TaskCompletion
	err := ts.DB.Where("user_id = ? AND task_id = ?", user.User.ID, task.ID).First(&completion).Error
	assert.NoError(t, err)

	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/completions/"+completion.ID+"/approve", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	wantBalance := models.SignupBonusAmount.Add(reward)
	assert.True(t, wantBalance.Equal(helpers.UserBalance(t, ts.DB, user.User.ID)))

	// Второе одобрение - 409, деньги не двигаются
	res, bodyStr := ts.SendRequest(t, "PUT", "/api/v1/admin/completions/"+completion.ID+"/approve", admin.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "not awaiting review")
	assert.True(t, wantBalance.Equal(helpers.UserBalance(t, ts.DB, user.User.ID)))

	// Счетчик выполнений задачи сдвинулся один раз
	var reloaded models.Task
	assert.NoError(t, ts.DB.First(&reloaded, "id = ?", task.ID).Error)
	assert.Equal(t, 1, reloaded.CurrentCompletions)
}

// TestRejectAndResubmit - отклонение позволяет пересдать: та же строка,
// attempts растет, статус снова submitted.
func TestRejectAndResubmit(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "resubmit")
	task := helpers.CreateTask(t, ts.DB, "Watch video", decimal.NewFromInt(15))

	res, _ := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var completion models.TaskCompletion
	assert.NoError(t, ts.DB.Where("user_id = ? AND task_id = ?", user.User.ID, task.ID).First(&completion).Error)

	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/completions/"+completion.ID+"/reject", admin.AccessToken, map[string]interface{}{
		"reason": "Screenshot is unreadable",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Отклонение денег не начисляет
	assert.True(t, models.SignupBonusAmount.Equal(helpers.UserBalance(t, ts.DB, user.User.ID)))

	res, _ = submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var resubmitted models.TaskCompletion
	assert.NoError(t, ts.DB.First(&resubmitted, "id = ?", completion.ID).Error)
	assert.Equal(t, models.CompletionStatusSubmitted, resubmitted.Status)
	assert.Equal(t, 2, resubmitted.Attempts)

	// Новая строка не создалась
	var count int64
	ts.DB.Model(&models.TaskCompletion{}).
		Where("user_id = ? AND task_id = ?", user.User.ID, task.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestSubmitCompletion_InactiveTask - деактивированная задача закрыта
func TestSubmitCompletion_InactiveTask(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	user := helpers.RegisterVerifiedUser(t, ts, "inactive")
	task := helpers.CreateTask(t, ts.DB, "Old task", decimal.NewFromInt(10))
	assert.NoError(t, ts.DB.Model(&models.Task{}).Where("id = ?", task.ID).Update("is_active", false).Error)

	res, bodyStr := submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "no longer active")
}

// TestListTasks_ExcludesCompleted - одобренная задача уходит из ленты
func TestListTasks_ExcludesCompleted(t *testing.T) {
	t.Parallel()

	ts := GetTestServer(t)
	admin := helpers.RegisterAdmin(t, ts)
	user := helpers.RegisterVerifiedUser(t, ts, "feed")
	task := helpers.CreateTask(t, ts.DB, "Feed task one", decimal.NewFromInt(20))

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/tasks", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, task.ID)

	res, _ = submitCompletion(t, ts, user.AccessToken, task.ID)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var completion models.TaskCompletion
	assert.NoError(t, ts.DB.Where("user_id = ? AND task_id = ?", user.User.ID, task.ID).First(&completion).Error)
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/admin/completions/"+completion.ID+"/approve", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/tasks", user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, bodyStr, task.ID)
}
