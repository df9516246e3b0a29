package server_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/config"
	"github.com/oggyb/muzz-web/internal/db"
	"github.com/oggyb/muzz-web/internal/server"
	"github.com/oggyb/muzz-web/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

//
// Test helpers
//

type testSite struct {
	appCtx *app.AppContext
	srv    *httptest.Server
}

func newSite(t *testing.T) *testSite {
	t.Helper()
	appCtx, _ := testutil.NewAppContext(t)
	cfg := config.New()
	cfg.App.ENV = "test"
	cfg.Session.Secure = false

	srv := httptest.NewServer(server.NewRouter(appCtx, cfg))
	t.Cleanup(srv.Close)
	return &testSite{appCtx: appCtx, srv: srv}
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	site   *testSite
	client *http.Client
}

func (s *testSite) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, site: s, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(req *http.Request) (int, string, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func (b *browser) get(path string) (int, string, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.site.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (int, string, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.site.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postMultipart(path string, fields map[string]string, fileName string, content []byte) (int, string, string) {
	b.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("profile_picture", fileName)
		require.NoError(b.t, err)
		_, err = part.Write(content)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, b.site.srv.URL+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func (b *browser) register(username, password, gender string) {
	b.t.Helper()
	status, loc, _ := b.post("/register", url.Values{
		"username": {username}, "password": {password}, "gender": {gender},
	})
	require.Equal(b.t, http.StatusFound, status)
	require.Equal(b.t, "/profile", loc)
}

func (s *testSite) userID(t *testing.T, username string) uint64 {
	t.Helper()
	var u db.User
	require.NoError(t, s.appCtx.DB.Where("username = ?", username).First(&u).Error)
	return u.ID
}

func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
}

//
// Tests
//

func TestHealthz(t *testing.T) {
	site := newSite(t)
	status, _, body := site.browser(t).get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	site := newSite(t)
	b := site.browser(t)

	for _, path := range []string{"/profile", "/users", "/matches", "/messages", "/like/1", "/logout"} {
		status, loc, _ := b.get(path)
		assert.Equal(t, http.StatusFound, status, path)
		assert.Equal(t, "/login", loc, path)
	}

	_, _, body := b.get("/login")
	assert.Contains(t, body, "Please log in to access this page.")
}

func TestRegisterLoginLogout(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")

	status, _, body := alice.get("/profile")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "alice")

	status, loc, _ := alice.get("/logout")
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/", loc)

	status, loc, _ = alice.get("/profile")
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/login", loc)

	status, _, body = alice.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Invalid username or password.")

	status, loc, _ = alice.post("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/profile", loc)
}

func TestRegisterDuplicateAndValidation(t *testing.T) {
	site := newSite(t)
	site.browser(t).register("alice", "pw1", "female")

	other := site.browser(t)
	status, loc, _ := other.post("/register", url.Values{
		"username": {"alice"}, "password": {"x"}, "gender": {"male"},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/register", loc)
	_, _, body := other.get("/register")
	assert.Contains(t, body, "Username already exists.")

	status, loc, _ = other.post("/register", url.Values{"username": {"bob"}, "gender": {"male"}})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/register", loc)
	_, _, body = other.get("/register")
	assert.Contains(t, body, "Please fill in the password field.")
}

func TestProfileUploadAndServe(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")
	id := site.userID(t, "alice")

	status, loc, _ := alice.postMultipart("/profile", map[string]string{"bio": "Loves hiking"}, "me pic.png", pngBytes())
	require.Equal(t, http.StatusFound, status)
	require.Equal(t, "/profile", loc)

	_, _, body := alice.get("/profile")
	assert.Contains(t, body, "Your profile has been updated.")
	assert.Contains(t, body, "Loves hiking")

	name := fmt.Sprintf("%d_me_pic.png", id)
	assert.Contains(t, body, "/uploads/"+name)

	status, _, served := alice.get("/uploads/" + name)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(pngBytes()), served)

	status, _, _ = alice.get("/uploads/missing.png")
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = alice.get("/uploads/.env")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProfileRejectsNonImage(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")

	status, loc, _ := alice.postMultipart("/profile", nil, "notes.txt", []byte("just some text"))
	require.Equal(t, http.StatusFound, status)
	require.Equal(t, "/profile", loc)

	_, _, body := alice.get("/profile")
	assert.Contains(t, body, "only image files are allowed")

	var u db.User
	require.NoError(t, site.appCtx.DB.First(&u, site.userID(t, "alice")).Error)
	assert.Equal(t, db.DefaultProfilePicture, u.ProfilePicture)
}

func TestUsersFilter(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")
	site.browser(t).register("bob", "pw2", "male")
	site.browser(t).register("carol", "pw3", "female")

	_, _, body := alice.get("/users?gender=male")
	assert.Contains(t, body, "<h2>bob</h2>")
	assert.NotContains(t, body, "<h2>carol</h2>")
	assert.NotContains(t, body, "<h2>alice</h2>")
}

func TestLikeUnknownOrMalformedIs404(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")

	status, _, _ := alice.get("/like/abc")
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = alice.get("/like/9999")
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = alice.get("/messages/9999")
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = alice.post("/messages/9999", url.Values{"body": {"hi"}})
	assert.Equal(t, http.StatusNotFound, status)
}

// TestMatchAndMessageScenario walks alice and bob from sign-up to a conversation.
func TestMatchAndMessageScenario(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	bob := site.browser(t)
	alice.register("alice", "pw1", "female")
	bob.register("bob", "pw2", "male")
	aliceID := site.userID(t, "alice")
	bobID := site.userID(t, "bob")

	status, loc, _ := alice.get(fmt.Sprintf("/like/%d", bobID))
	require.Equal(t, http.StatusFound, status)
	require.Equal(t, "/users", loc)
	_, _, body := alice.get("/users")
	assert.Contains(t, body, "You have liked bob.")
	assert.Contains(t, body, fmt.Sprintf("/unlike/%d", bobID))

	_, _, body = alice.get("/matches")
	assert.Contains(t, body, "No matches yet.")
	_, _, body = bob.get("/matches")
	assert.Contains(t, body, "No matches yet.")

	_, _, _ = bob.get(fmt.Sprintf("/like/%d", aliceID))

	_, _, body = alice.get("/matches")
	assert.Contains(t, body, "<h2>bob</h2>")
	_, _, body = bob.get("/matches")
	assert.Contains(t, body, "<h2>alice</h2>")

	status, loc, _ = alice.post(fmt.Sprintf("/messages/%d", bobID), url.Values{"body": {"hi"}})
	require.Equal(t, http.StatusFound, status)
	assert.Equal(t, fmt.Sprintf("/messages/%d", bobID), loc)

	status, _, body = bob.get(fmt.Sprintf("/messages/%d", aliceID))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Chat with alice")
	assert.Contains(t, body, "hi")

	_, _, body = bob.get("/messages")
	assert.Contains(t, body, fmt.Sprintf(`<a href="/messages/%d">alice</a>`, aliceID))

	status, loc, _ = alice.post(fmt.Sprintf("/messages/%d", bobID), url.Values{"body": {"   "}})
	require.Equal(t, http.StatusFound, status)
	_, _, body = alice.get(loc)
	assert.Contains(t, body, "Message cannot be empty.")

	_, _, _ = alice.get(fmt.Sprintf("/unlike/%d", bobID))
	_, _, body = bob.get("/matches")
	assert.Contains(t, body, "No matches yet.")
}

func TestProfileBioOnlyURLEncoded(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")

	status, loc, _ := alice.post("/profile", url.Values{"bio": {"hello there"}})
	require.Equal(t, http.StatusFound, status)
	require.Equal(t, "/profile", loc)

	_, _, body := alice.get("/profile")
	assert.Contains(t, body, "Your profile has been updated.")

	var u db.User
	require.NoError(t, site.appCtx.DB.First(&u, site.userID(t, "alice")).Error)
	assert.Equal(t, "hello there", u.Bio)
	assert.Equal(t, db.DefaultProfilePicture, u.ProfilePicture)
}

func TestRegisterBlankUsername(t *testing.T) {
	site := newSite(t)
	b := site.browser(t)

	status, loc, _ := b.post("/register", url.Values{
		"username": {"   "}, "password": {"pw"}, "gender": {"female"},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/register", loc)

	_, _, body := b.get("/register")
	assert.Contains(t, body, "username is required")

	var count int64
	require.NoError(t, site.appCtx.DB.Model(&db.User{}).Count(&count).Error)
	assert.Zero(t, count)

	status, loc, _ = b.get("/profile")
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/login", loc)
}

// TestSessionCookieRefreshed checks each authenticated request re-issues the
// session cookie so its lifetime slides with the Redis TTL.
func TestSessionCookieRefreshed(t *testing.T) {
	site := newSite(t)
	alice := site.browser(t)
	alice.register("alice", "pw1", "female")

	resp, err := alice.client.Get(site.srv.URL + "/users")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "session" {
			session = ck
		}
	}
	require.NotNil(t, session, "session cookie re-issued")
	assert.Equal(t, int(site.appCtx.Sessions.TTL().Seconds()), session.MaxAge)
	assert.True(t, session.HttpOnly)
}

func TestErrorPageShowsRequestID(t *testing.T) {
	site := newSite(t)
	b := site.browser(t)

	req, err := http.NewRequest(http.MethodGet, site.srv.URL+"/no-such-page", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")
	status, _, body := b.do(req)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Request ID: req-123")
}
