package headstart_test

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/esitarz/headstart"
	"github.com/esitarz/headstart/commerce"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
)

// MockAuthAPI implements headstart.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) PasswordGrant(ctx context.Context, clientID, username, password string, scope []string) (*commerce.TokenPair, error) {
	args := m.Called(ctx, clientID, username, password, scope)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockAuthAPI) RefreshGrant(ctx context.Context, clientID, refreshToken string) (*commerce.TokenPair, error) {
	args := m.Called(ctx, clientID, refreshToken)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockAuthAPI) ClientCredentialsGrant(ctx context.Context, clientID, clientSecret string, scope []string) (*commerce.TokenPair, error) {
	args := m.Called(ctx, clientID, clientSecret, scope)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockAuthAPI) AnonymousGrant(ctx context.Context, clientID string, scope []string) (*commerce.TokenPair, error) {
	args := m.Called(ctx, clientID, scope)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockAuthAPI) ResetPasswordByToken(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

// MockBuyerAPI implements headstart.BuyerAPI
type MockBuyerAPI struct {
	mock.Mock
}

func (m *MockBuyerAPI) CreateBuyer(ctx context.Context, token string, buyer *commerce.Buyer) (*commerce.Buyer, error) {
	args := m.Called(ctx, token, buyer)
	b, _ := args.Get(0).(*commerce.Buyer)
	return b, args.Error(1)
}

func (m *MockBuyerAPI) GetBuyer(ctx context.Context, token, buyerID string) (*commerce.Buyer, error) {
	args := m.Called(ctx, token, buyerID)
	b, _ := args.Get(0).(*commerce.Buyer)
	return b, args.Error(1)
}

func (m *MockBuyerAPI) SaveBuyer(ctx context.Context, token, buyerID string, buyer *commerce.Buyer) (*commerce.Buyer, error) {
	args := m.Called(ctx, token, buyerID, buyer)
	b, _ := args.Get(0).(*commerce.Buyer)
	return b, args.Error(1)
}

func (m *MockBuyerAPI) PatchBuyerXp(ctx context.Context, token, buyerID string, xp *commerce.BuyerXp) (*commerce.Buyer, error) {
	args := m.Called(ctx, token, buyerID, xp)
	b, _ := args.Get(0).(*commerce.Buyer)
	return b, args.Error(1)
}

// MockProvisioningAPI implements headstart.ProvisioningAPI
type MockProvisioningAPI struct {
	mock.Mock
}

func (m *MockProvisioningAPI) SaveSecurityProfileAssignment(ctx context.Context, token string, assignment commerce.SecurityProfileAssignment) error {
	args := m.Called(ctx, token, assignment)
	return args.Error(0)
}

func (m *MockProvisioningAPI) SaveMessageSenderAssignment(ctx context.Context, token string, assignment commerce.MessageSenderAssignment) error {
	args := m.Called(ctx, token, assignment)
	return args.Error(0)
}

func (m *MockProvisioningAPI) CreateIncrementor(ctx context.Context, token string, incrementor commerce.Incrementor) (*commerce.Incrementor, error) {
	args := m.Called(ctx, token, incrementor)
	inc, _ := args.Get(0).(*commerce.Incrementor)
	return inc, args.Error(1)
}

func (m *MockProvisioningAPI) SaveCatalogAssignment(ctx context.Context, token string, assignment commerce.CatalogAssignment) error {
	args := m.Called(ctx, token, assignment)
	return args.Error(0)
}

// MockConfig implements headstart.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetAppName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetClientID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetScope() []string {
	args := m.Called()
	scope, _ := args.Get(0).([]string)
	return scope
}

func (m *MockConfig) GetAnonymousEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockConfig) GetHomeRoute() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetLoginRoute() string {
	args := m.Called()
	return args.String(0)
}

// MockSessionOrchestrator implements headstart.SessionOrchestrator
type MockSessionOrchestrator struct {
	mock.Mock
}

func (m *MockSessionOrchestrator) Login(ctx context.Context, username, password string, rememberMe bool) (*commerce.TokenPair, error) {
	args := m.Called(ctx, username, password, rememberMe)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockSessionOrchestrator) LoginWithTokens(ctx context.Context, grant headstart.TokenGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockSessionOrchestrator) AnonymousLogin(ctx context.Context) (*commerce.TokenPair, error) {
	args := m.Called(ctx)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockSessionOrchestrator) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSessionOrchestrator) Refresh(ctx context.Context) (*commerce.TokenPair, error) {
	args := m.Called(ctx)
	pair, _ := args.Get(0).(*commerce.TokenPair)
	return pair, args.Error(1)
}

func (m *MockSessionOrchestrator) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	args := m.Called(ctx, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockSessionOrchestrator) IsLoggedIn() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockHTTPSession implements headstart.HTTPSession
type MockHTTPSession struct {
	mock.Mock
}

func (m *MockHTTPSession) Login(c router.Context, payload headstart.LoginPayload) error {
	args := m.Called(c, payload)
	return args.Error(0)
}

func (m *MockHTTPSession) Logout(c router.Context) (string, error) {
	args := m.Called(c)
	return args.String(0), args.Error(1)
}

func (m *MockHTTPSession) GetRedirect(c router.Context, def ...string) string {
	args := m.Called(c, def)
	return args.String(0)
}

func (m *MockHTTPSession) GetRedirectOrDefault(c router.Context) string {
	args := m.Called(c)
	return args.String(0)
}

func (m *MockHTTPSession) SetRedirect(c router.Context) {
	m.Called(c)
}

func (m *MockHTTPSession) RememberMe(c router.Context) bool {
	args := m.Called(c)
	return args.Bool(0)
}

// MockTokenSource implements headstart.TokenSource
type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockLoginPayload implements headstart.LoginPayload
type MockLoginPayload struct {
	Identifier string
	Password   string
	RememberMe bool
}

func (m MockLoginPayload) GetIdentifier() string {
	return m.Identifier
}

func (m MockLoginPayload) GetPassword() string {
	return m.Password
}

func (m MockLoginPayload) GetRememberMe() bool {
	return m.RememberMe
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryValues(key string) []string {
	args := m.Called(key)
	vals, _ := args.Get(0).([]string)
	return vals
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	merged, _ := args.Get(0).(map[string]any)
	return merged
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	fh, _ := args.Get(0).(*multipart.FileHeader)
	return fh, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	params, _ := args.Get(0).(map[string]string)
	return params
}
