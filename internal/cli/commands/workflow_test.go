package commands

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_GatedUntilLogin(t *testing.T) {
	env := newEnv(t)

	assert.Contains(t, run(t, env, "status"), "Session: unauthenticated")
	assert.Contains(t, run(t, env, "cases"), "Login required")
	assert.Contains(t, run(t, env, "login admin@example.com wrong"), "invalid login credentials")
	assert.False(t, env.Guard.IsAuthenticated())

	assert.Contains(t, run(t, env, "login admin@example.com pw"), "Logged in as admin@example.com")
	assert.Contains(t, run(t, env, "cases"), "No cases")

	// токен сохранён в файл и удаляется при выходе
	_, err := os.Stat(env.Config.TokenFile)
	require.NoError(t, err)
	assert.Contains(t, run(t, env, "logout"), "Logged out")
	assert.Contains(t, run(t, env, "cases"), "Login required")
	_, err = os.Stat(env.Config.TokenFile)
	assert.True(t, os.IsNotExist(err))
}

func TestConsole_CaseWorkflow(t *testing.T) {
	env := newEnv(t)
	run(t, env, "login admin@example.com pw")

	out := run(t, env, "save")
	assert.Contains(t, out, "no open form")

	run(t, env, "new")
	out = run(t, env, "save")
	assert.Contains(t, out, "case_number is required")

	run(t, env, "set case_number CT-100")
	run(t, env, `set full_name "Jane Roe"`)
	run(t, env, "set id_number P123")
	run(t, env, "set email jane@example.com")
	run(t, env, `set phone_number "+1 555 0100"`)
	run(t, env, "set country US")
	run(t, env, "set total_retrieved_amount 1500")
	assert.Contains(t, run(t, env, "save"), "Case CT-100 created")

	out = run(t, env, "cases")
	assert.Contains(t, out, "CT-100")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "$1,500.00")

	assert.Contains(t, run(t, env, "search jane"), "CT-100")
	assert.Contains(t, run(t, env, "search nobody"), "No cases")

	run(t, env, "edit CT-100")
	run(t, env, "set status Active")
	assert.Contains(t, run(t, env, "save"), "Case CT-100 updated")

	out = run(t, env, "lookup CT-100")
	assert.Contains(t, out, "Status:          Active")
	assert.Contains(t, out, "Platform:        N/A")

	// вложение
	pdf := filepath.Join("..", "..", "pdfcheck", "testdata", "one-page.pdf")
	assert.Contains(t, run(t, env, "upload CT-100 "+pdf), "PDF attached to case CT-100")
	out = run(t, env, "lookup CT-100")
	assert.Contains(t, out, "Document:        one-page.pdf")
	assert.Contains(t, out, env.Config.PublicURL+"/files/")

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain"), 0o600))
	assert.Contains(t, run(t, env, "upload CT-100 "+txt), "only PDF files are allowed")

	// удаление в два шага
	assert.Contains(t, run(t, env, "delete CT-100"), "Type `confirm` or `abort`")
	run(t, env, "abort")
	assert.Contains(t, run(t, env, "confirm"), "nothing to confirm")
	run(t, env, "delete CT-100")
	assert.Contains(t, run(t, env, "confirm"), "Case CT-100 deleted")
	assert.Contains(t, run(t, env, "lookup CT-100"), "Case Not Found")
}

func TestConsole_LookupCaseNumberWithSlash(t *testing.T) {
	env := newEnv(t)
	run(t, env, "login admin@example.com pw")
	run(t, env, "new")
	run(t, env, "set case_number CF/2024/1")
	run(t, env, `set full_name "Jane Roe"`)
	run(t, env, "set id_number P123")
	run(t, env, "set email jane@example.com")
	run(t, env, "set phone_number 555")
	run(t, env, "set country US")
	require.Contains(t, run(t, env, "save"), "Case CF/2024/1 created")
	run(t, env, "logout")

	out := run(t, env, "lookup CF/2024/1")
	assert.Contains(t, out, "Case:            CF/2024/1")
	assert.NotContains(t, out, "Case Not Found")
}

func TestConsole_Inbox(t *testing.T) {
	env := newEnv(t)
	body := `{"name":"Ann","email":"ann@example.com","subject":"Where is my case","message":"Please help"}`
	resp, err := http.Post(env.Config.ServerURL+"/api/contact", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, run(t, env, "inbox"), "Login required")
	run(t, env, "login admin@example.com pw")

	out := run(t, env, "inbox")
	assert.Contains(t, out, "1 submissions, 1 unread")
	list := env.Inbox.Submissions()
	require.Len(t, list, 1)
	id := list[0].ID

	assert.Empty(t, run(t, env, "read "+id))
	assert.Empty(t, run(t, env, "read "+id))
	assert.Equal(t, 0, env.Inbox.UnreadCount())

	assert.Contains(t, run(t, env, "delete-submission "+id), "Delete submission from Ann")
	assert.Contains(t, run(t, env, "confirm"), "Submission "+id+" deleted")
	assert.Contains(t, run(t, env, "inbox"), "0 submissions, 0 unread")
}
