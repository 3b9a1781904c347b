package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/database/dbtest"
	"github.com/odontolegal/forensic-api/internal/handler"
	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.AuditEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) last() queue.AuditEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return queue.AuditEvent{}
	}
	return p.events[len(p.events)-1]
}

type testAPI struct {
	t      *testing.T
	e      *echo.Echo
	users  *repository.UserRepo
	hasher utils.PasswordHasher
	tokens *utils.TokenManager
	pub    *recordingPublisher

	admin, examiner, assistant *model.User
	adminTok, examinerTok      string
	assistantTok               string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := dbtest.Open(t)
	a := &testAPI{
		t:      t,
		e:      echo.New(),
		users:  repository.NewUserRepo(db),
		hasher: utils.NewPasswordHasher(4),
		tokens: utils.NewTokenManager("test-secret", time.Hour),
		pub:    &recordingPublisher{},
	}
	evidence := repository.NewEvidenceRepo(db)
	records := repository.NewDentalRecordRepo(db)
	RegisterRoutes(a.e, Handlers{
		Users:    handler.NewUserHandler(a.users, a.hasher, a.tokens, a.pub),
		Cases:    handler.NewCaseHandler(repository.NewCaseRepo(db), a.pub),
		Evidence: handler.NewEvidenceHandler(evidence, a.pub),
		Records:  handler.NewDentalRecordHandler(records, a.pub),
		Reports:  handler.NewReportHandler(repository.NewReportRepo(db), a.users, evidence, a.pub),
		Stats:    handler.NewStatsHandler(records),
	}, a.tokens, Extras{})

	a.admin, a.adminTok = a.seedUser("Admin", "admin@odonto.test", "adminpw", model.RoleAdmin)
	a.examiner, a.examinerTok = a.seedUser("Perita", "perita@odonto.test", "peritapw", model.RoleExaminer)
	a.assistant, a.assistantTok = a.seedUser("Assistente", "assist@odonto.test", "assistpw", model.RoleAssistant)
	return a
}

func (a *testAPI) seedUser(name, email, password string, role model.Role) (*model.User, string) {
	a.t.Helper()
	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.t.Fatalf("hash: %v", err)
	}
	u := &model.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := a.users.Create(context.Background(), u); err != nil {
		a.t.Fatalf("seed %s: %v", email, err)
	}
	tok, err := a.tokens.Issue(u.ID, role)
	if err != nil {
		a.t.Fatalf("issue: %v", err)
	}
	return u, tok.Token
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodPost, "/api/user", "", `{"name":"Joana","email":" Joana@Odonto.test ","password":"plain-secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "plain-secret") || strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Fatalf("response leaks secret: %s", rec.Body.String())
	}
	var resp struct {
		User model.User `json:"user"`
	}
	decode(t, rec, &resp)
	if resp.User.Role != model.RoleAssistant || resp.User.Email != "joana@odonto.test" {
		t.Fatalf("user = %+v", resp.User)
	}

	stored, err := a.users.GetByID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.PasswordHash == "plain-secret" || !a.hasher.Verify("plain-secret", stored.PasswordHash) {
		t.Fatalf("stored hash invalid: %q", stored.PasswordHash)
	}

	if rec := a.do(http.MethodPost, "/api/user", "", `{"name":"Joana","email":"joana@odonto.test","password":"x"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email = %d", rec.Code)
	}
	if rec := a.do(http.MethodPost, "/api/user", "", `{"name":"Sem Senha","email":"nopw@odonto.test"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password = %d", rec.Code)
	}
}

func TestRegisterElevatedRoleNeedsAdmin(t *testing.T) {
	a := newTestAPI(t)
	body := `{"name":"Novo Perito","email":"novo@odonto.test","password":"pw","role":"perito"}`
	if rec := a.do(http.MethodPost, "/api/user", "", body); rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous perito = %d", rec.Code)
	}
	if rec := a.do(http.MethodPost, "/api/user", a.examinerTok, body); rec.Code != http.StatusForbidden {
		t.Fatalf("perito granting perito = %d", rec.Code)
	}
	if rec := a.do(http.MethodPost, "/api/user", a.adminTok, body); rec.Code != http.StatusCreated {
		t.Fatalf("admin granting perito = %d %s", rec.Code, rec.Body.String())
	}
	if rec := a.do(http.MethodPost, "/api/user", a.adminTok, `{"name":"x","email":"x@odonto.test","password":"pw","role":"root"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown role = %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)

	var msg map[string]any
	rec := a.do(http.MethodPost, "/api/user/login", "", `{"email":"ghost@odonto.test","password":"x"}`)
	decode(t, rec, &msg)
	if rec.Code != http.StatusBadRequest || msg["message"] != "user not found" {
		t.Fatalf("unknown user = %d %v", rec.Code, msg)
	}
	rec = a.do(http.MethodPost, "/api/user/login", "", `{"email":"perita@odonto.test","password":"wrong"}`)
	decode(t, rec, &msg)
	if rec.Code != http.StatusBadRequest || msg["message"] != "incorrect password" {
		t.Fatalf("wrong password = %d %v", rec.Code, msg)
	}

	rec = a.do(http.MethodPost, "/api/user/login", "", `{"email":"PERITA@odonto.test","password":"peritapw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token     string     `json:"token"`
		ExpiresAt time.Time  `json:"expiresAt"`
		User      model.User `json:"user"`
	}
	decode(t, rec, &resp)
	id, err := a.tokens.Verify(resp.Token)
	if err != nil || id.UserID != a.examiner.ID || id.Role != model.RoleExaminer {
		t.Fatalf("token identity = %+v err=%v", id, err)
	}
	if ev := a.pub.last(); ev.Action != queue.ActionLogin || ev.ActorID != a.examiner.ID {
		t.Fatalf("login audit = %+v", ev)
	}
}

func TestUpdateWithoutPasswordKeepsHash(t *testing.T) {
	a := newTestAPI(t)
	path := "/api/user/" + a.examiner.ID

	rec := a.do(http.MethodPut, path, a.examinerTok, `{"name":"Perita Renomeada"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("self update = %d %s", rec.Code, rec.Body.String())
	}
	stored, _ := a.users.GetByID(context.Background(), a.examiner.ID)
	if stored.Name != "Perita Renomeada" || !a.hasher.Verify("peritapw", stored.PasswordHash) {
		t.Fatalf("after update: %+v", stored)
	}

	if rec := a.do(http.MethodPut, path, a.examinerTok, `{"password":""}`); rec.Code != http.StatusOK {
		t.Fatalf("blank password update = %d", rec.Code)
	}
	stored, _ = a.users.GetByID(context.Background(), a.examiner.ID)
	if !a.hasher.Verify("peritapw", stored.PasswordHash) {
		t.Fatal("blank password must not replace the hash")
	}

	if rec := a.do(http.MethodPut, path, a.adminTok, `{"password":"novo-segredo"}`); rec.Code != http.StatusOK {
		t.Fatalf("admin password reset = %d", rec.Code)
	}
	stored, _ = a.users.GetByID(context.Background(), a.examiner.ID)
	if !a.hasher.Verify("novo-segredo", stored.PasswordHash) {
		t.Fatal("new password not applied")
	}
}

func TestUpdateUserPermissions(t *testing.T) {
	a := newTestAPI(t)
	if rec := a.do(http.MethodPut, "/api/user/"+a.examiner.ID, a.assistantTok, `{"name":"x"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("assistant editing other = %d", rec.Code)
	}
	if rec := a.do(http.MethodPut, "/api/user/"+a.assistant.ID, a.assistantTok, `{"role":"admin"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("self promotion = %d", rec.Code)
	}
	if rec := a.do(http.MethodPut, "/api/user/"+a.assistant.ID, a.adminTok, `{"role":"perito"}`); rec.Code != http.StatusOK {
		t.Fatalf("admin promotion = %d", rec.Code)
	}
	missing := uuid.NewString()
	if rec := a.do(http.MethodPut, "/api/user/"+missing, a.adminTok, `{"name":"x"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("update missing = %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodGet, "/api/user/me", a.assistantTok, "")
	var u model.User
	decode(t, rec, &u)
	if rec.Code != http.StatusOK || u.ID != a.assistant.ID {
		t.Fatalf("me = %d %+v", rec.Code, u)
	}
	if rec := a.do(http.MethodGet, "/api/user/me", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me = %d", rec.Code)
	}
}

func TestDeleteAllUsers(t *testing.T) {
	a := newTestAPI(t)
	for _, tok := range []string{a.assistantTok, a.examinerTok} {
		if rec := a.do(http.MethodDelete, "/api/user", tok, ""); rec.Code != http.StatusForbidden {
			t.Fatalf("non-admin delete all = %d", rec.Code)
		}
	}
	prior, _ := a.users.List(context.Background())

	rec := a.do(http.MethodDelete, "/api/user", a.adminTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete all = %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DeletedCount int `json:"deletedCount"`
	}
	decode(t, rec, &resp)
	if resp.DeletedCount != len(prior) || resp.DeletedCount != 3 {
		t.Fatalf("deletedCount = %d, prior = %d", resp.DeletedCount, len(prior))
	}
	left, _ := a.users.List(context.Background())
	if len(left) != 0 {
		t.Fatalf("users left: %d", len(left))
	}
	if ev := a.pub.last(); ev.Action != queue.ActionDeleteAll || ev.Count != 3 || ev.ActorRole != "admin" {
		t.Fatalf("audit = %+v", ev)
	}
}

func TestDeleteUserByID(t *testing.T) {
	a := newTestAPI(t)
	if rec := a.do(http.MethodDelete, "/api/user/"+a.assistant.ID, a.examinerTok, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("perito delete = %d", rec.Code)
	}
	if rec := a.do(http.MethodDelete, "/api/user/not-a-uuid", a.adminTok, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id = %d", rec.Code)
	}
	if rec := a.do(http.MethodDelete, "/api/user/"+a.assistant.ID, a.adminTok, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin delete = %d", rec.Code)
	}
	if rec := a.do(http.MethodDelete, "/api/user/"+a.assistant.ID, a.adminTok, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", rec.Code)
	}
}

func TestNotFoundNamesID(t *testing.T) {
	a := newTestAPI(t)
	for _, res := range []string{"user", "caso", "evidencia", "bancoodonto", "laudo"} {
		id := uuid.NewString()
		rec := a.do(http.MethodGet, "/api/"+res+"/"+id, a.adminTok, "")
		var msg map[string]string
		decode(t, rec, &msg)
		if rec.Code != http.StatusNotFound || !strings.Contains(msg["message"], id) {
			t.Fatalf("%s: %d %v", res, rec.Code, msg)
		}
	}
}

func TestAuthenticationAndRoleGates(t *testing.T) {
	a := newTestAPI(t)
	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/bancoodonto", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/bancoodonto", "garbage", http.StatusUnauthorized},
		{"assistant reads", http.MethodGet, "/api/bancoodonto", a.assistantTok, http.StatusOK},
		{"assistant creates", http.MethodPost, "/api/bancoodonto", a.assistantTok, http.StatusForbidden},
		{"perito bulk delete", http.MethodDelete, "/api/bancoodonto", a.examinerTok, http.StatusForbidden},
		{"admin bulk delete", http.MethodDelete, "/api/bancoodonto", a.adminTok, http.StatusOK},
		{"assistant writes caso", http.MethodPost, "/api/caso", a.assistantTok, http.StatusForbidden},
		{"perito deletes laudo", http.MethodDelete, "/api/laudo/" + uuid.NewString(), a.examinerTok, http.StatusForbidden},
		{"assistant renders pdf", http.MethodGet, "/api/laudo/" + uuid.NewString() + "/pdf", a.assistantTok, http.StatusForbidden},
		{"perito bulk delete evidencia", http.MethodDelete, "/api/evidencia", a.examinerTok, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := ""
			if tc.method == http.MethodPost {
				body = `{}`
			}
			if rec := a.do(tc.method, tc.path, tc.token, body); rec.Code != tc.want {
				t.Fatalf("got %d want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func dentalBody(fileURL string) string {
	return `{"type":"ante-mortem","registrationDate":"2024-01-10","generalCharacteristic":"restauração em 36",` +
		`"dentitionType":"permanente","specificFeatures":["implante","coroa"],"archRegion":["maxila"],"fileUrl":"` + fileURL + `"}`
}

func TestDentalRecordFileURL(t *testing.T) {
	a := newTestAPI(t)
	cases := []struct {
		url  string
		want int
	}{
		{"http://x.com/scan.jpg", http.StatusCreated},
		{"ftp://x.com/scan.jpg", http.StatusBadRequest},
		{"http://x.com/scan.txt", http.StatusBadRequest},
		{"http://x.com/raw/upload/abc", http.StatusCreated},
	}
	for _, tc := range cases {
		rec := a.do(http.MethodPost, "/api/bancoodonto", a.examinerTok, dentalBody(tc.url))
		if rec.Code != tc.want {
			t.Fatalf("%s: got %d want %d (%s)", tc.url, rec.Code, tc.want, rec.Body.String())
		}
		if tc.want == http.StatusBadRequest {
			var msg map[string]string
			decode(t, rec, &msg)
			if msg["value"] != tc.url || msg["field"] != "fileUrl" {
				t.Fatalf("%s: error body %v", tc.url, msg)
			}
		}
	}
}

func TestDentalRecordCRUD(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodPost, "/api/bancoodonto", a.examinerTok, dentalBody("https://cdn.test/a.png"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	var created model.DentalRecord
	decode(t, rec, &created)
	if created.Status != model.StatusActive || len(created.SpecificFeatures) != 2 {
		t.Fatalf("created = %+v", created)
	}
	if ev := a.pub.last(); ev.Resource != "bancoodonto" || ev.Action != queue.ActionCreate || ev.ID != created.ID {
		t.Fatalf("audit = %+v", ev)
	}

	path := "/api/bancoodonto/" + created.ID
	rec = a.do(http.MethodPut, path, a.examinerTok, `{"status":"inativo"}`)
	var updated model.DentalRecord
	decode(t, rec, &updated)
	if rec.Code != http.StatusOK || updated.Status != model.StatusInactive || updated.FileURL != "https://cdn.test/a.png" {
		t.Fatalf("update = %d %+v", rec.Code, updated)
	}
	if rec := a.do(http.MethodPut, path, a.examinerTok, `{"fileUrl":"http://x.com/scan.txt"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("update bad url = %d", rec.Code)
	}
	if rec := a.do(http.MethodPut, path, a.examinerTok, `{"dentitionType":"adulta"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("update bad enum = %d", rec.Code)
	}

	rec = a.do(http.MethodGet, "/api/bancoodonto", a.assistantTok, "")
	var list []model.DentalRecord
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("list = %d", len(list))
	}

	if rec := a.do(http.MethodDelete, path, a.examinerTok, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec := a.do(http.MethodDelete, path, a.examinerTok, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete again = %d", rec.Code)
	}
}

func reportBody(number, extra string) string {
	return `{"title":"Identificação","reportNumber":"` + number + `","issueDate":"2024-02-01","reportType":"final",` +
		`"content":{"introduction":"i","methodology":"m","analysisAndResults":"a","conclusion":"c"}` + extra + `}`
}

func TestReports(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodPost, "/api/laudo", a.examinerTok, reportBody("L-1", `,"responsibleId":"`+a.examiner.ID+`"`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	var r model.Report
	decode(t, rec, &r)

	if rec := a.do(http.MethodPost, "/api/laudo", a.examinerTok, reportBody("L-1", "")); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate number = %d", rec.Code)
	}
	if rec := a.do(http.MethodPost, "/api/laudo", a.examinerTok, reportBody("L-2", `,"responsibleId":"`+uuid.NewString()+`"`)); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown responsible = %d", rec.Code)
	}
	if rec := a.do(http.MethodPost, "/api/laudo", a.examinerTok, reportBody("L-3", `,"evidenceId":"`+uuid.NewString()+`"`)); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown evidence = %d", rec.Code)
	}
	if rec := a.do(http.MethodPost, "/api/laudo", a.examinerTok, `{"title":"sem conteúdo","reportNumber":"L-4","issueDate":"2024-02-01","reportType":"final"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing content = %d", rec.Code)
	}

	rec = a.do(http.MethodPut, "/api/laudo/"+r.ID, a.examinerTok, `{"content":{"conclusion":"revisada"}}`)
	var updated model.Report
	decode(t, rec, &updated)
	if rec.Code != http.StatusOK || updated.Content.Conclusion != "revisada" || updated.Content.Introduction != "i" {
		t.Fatalf("partial update = %d %+v", rec.Code, updated)
	}

	rec = a.do(http.MethodGet, "/api/laudo/"+r.ID+"/pdf", a.examinerTok, "")
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "application/pdf" || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("pdf = %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}

	if rec := a.do(http.MethodDelete, "/api/laudo", a.adminTok, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete all = %d", rec.Code)
	}
}

func TestCaseAndEvidenceFlow(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodPost, "/api/caso", a.examinerTok, `{"title":"Caso 1","location":"Recife","openedAt":"2024-03-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create caso = %d %s", rec.Code, rec.Body.String())
	}
	var cs model.Case
	decode(t, rec, &cs)
	if cs.Status != model.CaseOpen {
		t.Fatalf("default status = %q", cs.Status)
	}

	ev := `{"caseId":"` + cs.ID + `","type":"imagem","description":"radiografia","collectedAt":"2024-03-02","fileUrl":"https://cdn.test/rx.jpg"}`
	if rec := a.do(http.MethodPost, "/api/evidencia", a.examinerTok, ev); rec.Code != http.StatusCreated {
		t.Fatalf("create evidencia = %d %s", rec.Code, rec.Body.String())
	}
	other := `{"caseId":"` + uuid.NewString() + `","type":"texto","description":"nota","collectedAt":"2024-03-02"}`
	if rec := a.do(http.MethodPost, "/api/evidencia", a.examinerTok, other); rec.Code != http.StatusCreated {
		t.Fatalf("create evidencia 2 = %d", rec.Code)
	}
	bad := `{"caseId":"` + cs.ID + `","type":"imagem","description":"x","collectedAt":"2024-03-02","fileUrl":"ftp://x/y.jpg"}`
	if rec := a.do(http.MethodPost, "/api/evidencia", a.examinerTok, bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad fileUrl = %d", rec.Code)
	}

	rec = a.do(http.MethodGet, "/api/evidencia?caseId="+cs.ID, a.assistantTok, "")
	var items []model.Evidence
	decode(t, rec, &items)
	if len(items) != 1 || items[0].CaseID != cs.ID {
		t.Fatalf("filtered evidence = %+v", items)
	}

	rec = a.do(http.MethodPut, "/api/caso/"+cs.ID, a.examinerTok, `{"status":"finalizado"}`)
	var upd model.Case
	decode(t, rec, &upd)
	if rec.Code != http.StatusOK || upd.Status != model.CaseClosed || upd.Title != "Caso 1" {
		t.Fatalf("update caso = %d %+v", rec.Code, upd)
	}

	rec = a.do(http.MethodDelete, "/api/evidencia", a.adminTok, "")
	var resp struct {
		DeletedCount int `json:"deletedCount"`
	}
	decode(t, rec, &resp)
	if resp.DeletedCount != 2 {
		t.Fatalf("evidencia deletedCount = %d", resp.DeletedCount)
	}
}

func TestStatsEndpoint(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodGet, "/api/bancoodonto/stats", a.assistantTok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d %s", rec.Code, rec.Body.String())
	}
	var d struct {
		Total       int `json:"total"`
		RecordTypes struct {
			Labels []string `json:"labels"`
			Data   []int    `json:"data"`
		} `json:"recordTypes"`
	}
	decode(t, rec, &d)
	if d.Total != 7 || len(d.RecordTypes.Labels) != 2 || d.RecordTypes.Labels[0] != "ante-mortem" || d.RecordTypes.Data[0] != 4 {
		t.Fatalf("sample stats = %+v", d)
	}

	a.do(http.MethodPost, "/api/bancoodonto", a.examinerTok, dentalBody("http://x.com/a.jpg"))
	rec = a.do(http.MethodGet, "/api/bancoodonto/stats?source=store", a.assistantTok, "")
	decode(t, rec, &d)
	if d.Total != 1 || d.RecordTypes.Data[0] != 1 {
		t.Fatalf("store stats = %+v", d)
	}
	if rec := a.do(http.MethodGet, "/api/bancoodonto/stats?source=nope", a.assistantTok, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad source = %d", rec.Code)
	}
}
