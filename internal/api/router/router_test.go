package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	_ "tcms/docs"
	"tcms/internal/api/router"
	"tcms/internal/pkg/config"
	"tcms/internal/pkg/fixtures"
	"tcms/internal/pkg/testdb"
	"tcms/internal/rpc"
	"tcms/pkg/constants"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Auth: config.AuthConfig{
			JWT:   config.JWTConfig{Secret: "router-test", SessionExpire: 3600},
			Local: config.LocalConfig{Enabled: true},
		},
		RPC: config.RPCConfig{Path: "/json-rpc/", MaxBodyBytes: 1 << 16},
	}
}

type RPCSuite struct {
	suite.Suite
	engine *gin.Engine
	seeded *fixtures.Seeded
	token  string
	nextID int
}

func TestRPC(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RPCSuite))
}

func (s *RPCSuite) SetupTest() {
	db, seeded := testdb.Seeded(s.T())
	s.engine, _ = router.Setup(testConfig(), db)
	s.seeded = seeded
	s.token = s.login("tester", "tester-pass")
}

func (s *RPCSuite) post(token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/json-rpc/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.HeaderBearerPrefix+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// call 以 token 身份调用方法, 返回解析后的响应
func (s *RPCSuite) callAs(token, method string, args ...interface{}) *rpc.Response {
	if args == nil {
		args = []interface{}{}
	}
	s.nextID++
	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      s.nextID,
		"method":  method,
		"params":  args,
	})
	s.Require().NoError(err)

	w := s.post(token, string(payload))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp rpc.Response
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().JSONEq(fmt.Sprint(s.nextID), string(resp.ID))
	return &resp
}

func (s *RPCSuite) call(method string, args ...interface{}) *rpc.Response {
	return s.callAs(s.token, method, args...)
}

func (s *RPCSuite) login(username, password string) string {
	resp := s.callAs("", "Auth.login", username, password)
	s.Require().Nil(resp.Error)
	var token string
	s.Require().NoError(json.Unmarshal(resp.Result.(json.RawMessage), &token))
	return token
}

func (s *RPCSuite) result(resp *rpc.Response, v interface{}) {
	s.Require().Nil(resp.Error, "unexpected fault")
	s.Require().NoError(json.Unmarshal(resp.Result.(json.RawMessage), v))
}

func (s *RPCSuite) fault(resp *rpc.Response, code int, pattern string) {
	s.Require().NotNil(resp.Error, "expected fault")
	s.Equal(code, resp.Error.Code, resp.Error.Message)
	s.Regexp(pattern, resp.Error.Message)
}

func (s *RPCSuite) buildID(product, name string) int64 {
	return s.seeded.Builds[fixtures.BuildKey(product, name)]
}

func (s *RPCSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (s *RPCSuite) TestSwaggerDoc() {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	s.Require().Equal(http.StatusOK, w.Code)

	var doc struct {
		Info  map[string]interface{}            `json:"info"`
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	s.Equal("TCMS API", doc.Info["title"])
	s.Contains(doc.Paths["/json-rpc/"], "post")
	s.Contains(doc.Paths["/health"], "get")

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *RPCSuite) TestNoSessionIsForbidden() {
	w := s.post("", `{"jsonrpc":"2.0","id":1,"method":"Build.get","params":[1]}`)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.post("not-a-token", `{"jsonrpc":"2.0","id":1,"method":"Build.get","params":[1]}`)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RPCSuite) TestRoleWithoutPermissionIsForbidden() {
	viewer := s.login("viewer", "viewer-pass")
	resp := s.callAs(viewer, "Build.get", s.buildID("StarCraft", "B1"))
	s.Nil(resp.Error)

	w := s.post(viewer, `{"jsonrpc":"2.0","id":1,"method":"Build.create","params":[{"product":1,"name":"X"}]}`)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RPCSuite) TestLoginFailure() {
	resp := s.callAs("", "Auth.login", "tester", "wrong")
	s.fault(resp, constants.FaultAuth, `^Internal error: Invalid username or password`)
}

func (s *RPCSuite) TestLogoutRevokesSession() {
	token := s.login("admin", "admin-pass")
	resp := s.callAs(token, "Auth.logout")
	s.Nil(resp.Error)

	w := s.post(token, `{"jsonrpc":"2.0","id":1,"method":"Build.get","params":[1]}`)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RPCSuite) TestParseErrorAndUnknownMethod() {
	w := s.post(s.token, `{"jsonrpc":`)
	s.Equal(http.StatusOK, w.Code)
	var resp rpc.Response
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(constants.FaultParseError, resp.Error.Code)

	s.fault(s.call("Build.nope"), constants.FaultMethodNotFound, `Method not found`)
}

func (s *RPCSuite) TestListMethods() {
	var methods []string
	s.result(s.callAs("", "system.listMethods"), &methods)
	s.Contains(methods, "Build.check_build")
	s.Contains(methods, "TestCasePlan.update")
}

// TestCasePlan

func (s *RPCSuite) TestCasePlanGetRejectsNonIntegerIDs() {
	planID := s.seeded.Plans["StarCraft Regression"]
	caseID := s.seeded.Cases["Login works"]
	for _, args := range [][]interface{}{
		{"1", planID},
		{caseID, "1"},
		{[]int64{caseID}, planID},
		{caseID, nil},
		{true, planID},
		{1.5, planID},
	} {
		s.fault(s.call("TestCasePlan.get", args...), constants.FaultInvalidParams,
			`^Internal error: Invalid parameter: (case|plan)_id must be an integer$`)
	}
}

func (s *RPCSuite) TestCasePlanGet() {
	var resp map[string]interface{}
	s.result(s.call("TestCasePlan.get", s.seeded.Cases["Login works"], s.seeded.Plans["StarCraft Regression"]), &resp)
	s.Equal("Login works", resp["case"])
	s.Equal("StarCraft Regression", resp["plan"])
	s.EqualValues(10, resp["sortkey"])

	s.fault(s.call("TestCasePlan.get", 9999, 9999), constants.FaultNotFound, `TestCasePlan matching query does not exist`)
}

func (s *RPCSuite) TestCasePlanUpdate() {
	caseID := s.seeded.Cases["Login works"]
	planID := s.seeded.Plans["StarCraft Regression"]

	var resp map[string]interface{}
	s.result(s.call("TestCasePlan.update", caseID, planID, 777), &resp)
	s.EqualValues(777, resp["sortkey"])

	for _, sortkey := range []interface{}{"1", nil, true, 1.5, []int{1}} {
		s.result(s.call("TestCasePlan.update", caseID, planID, sortkey), &resp)
		s.EqualValues(777, resp["sortkey"])
	}

	s.fault(s.call("TestCasePlan.update", "x", planID, 1), constants.FaultInvalidParams, `case_id must be an integer`)
}

// Build.create

func (s *RPCSuite) TestBuildCreateRequiresProductAndName() {
	productID := s.seeded.Products["StarCraft"]
	for _, values := range []map[string]interface{}{
		{},
		{"name": "TB"},
		{"product": productID},
		{"product": productID, "name": ""},
		{"product": "", "name": "TB"},
	} {
		s.fault(s.call("Build.create", values), constants.FaultInvalidParams,
			`^Internal error: Product and name are both required$`)
	}
}

func (s *RPCSuite) TestBuildCreateUnknownProduct() {
	s.fault(s.call("Build.create", map[string]interface{}{"product": 9999, "name": "B"}),
		constants.FaultNotFound, `Product matching query does not exist`)
	s.fault(s.call("Build.create", map[string]interface{}{"product": "AAAAAAAAAAAAAA", "name": "B"}),
		constants.FaultNotFound, `Product matching query does not exist`)
	s.fault(s.call("Build.create", map[string]interface{}{"product": []int{1}, "name": "B"}),
		constants.FaultInvalidParams, `The type of product is not recognizable`)
}

func (s *RPCSuite) TestBuildCreateWithoutDescription() {
	s.fault(s.call("Build.create", map[string]interface{}{"product": s.seeded.Products["StarCraft"], "name": "B9"}),
		constants.FaultConstraint, `NOT NULL constraint|cannot be null|violates not-null`)
}

func (s *RPCSuite) TestBuildCreate() {
	var resp map[string]interface{}
	s.result(s.call("Build.create", map[string]interface{}{
		"product":     "StarCraft",
		"name":        "B3",
		"description": "製品説明 ✓",
		"is_active":   false,
	}), &resp)

	s.Equal("B3", resp["name"])
	s.EqualValues(s.seeded.Products["StarCraft"], resp["product_id"])
	s.Equal("StarCraft", resp["product"])
	s.Equal("製品説明 ✓", resp["description"])
	s.Equal("---", resp["milestone"])
	s.Equal(false, resp["is_active"])

	var got map[string]interface{}
	s.result(s.call("Build.get", resp["build_id"]), &got)
	s.Equal(resp, got)
}

// Build.update

func (s *RPCSuite) TestBuildUpdateMissing() {
	s.fault(s.call("Build.update", -99, map[string]interface{}{}),
		constants.FaultNotFound, `TestBuild matching query does not exist`)
}

func (s *RPCSuite) TestBuildUpdateRejectsIDList() {
	ids := []int64{s.buildID("StarCraft", "B1"), s.buildID("StarCraft", "B2"), s.buildID("WarCraft", "B1")}
	s.fault(s.call("Build.update", ids, map[string]interface{}{}),
		constants.FaultInvalidParams, `^Internal error: Invalid parameter`)
}

func (s *RPCSuite) TestBuildUpdate() {
	id := s.buildID("StarCraft", "B2")
	var resp map[string]interface{}
	s.result(s.call("Build.update", id, map[string]interface{}{
		"name":        "B2-final",
		"milestone":   "GA",
		"description": "",
		"is_active":   true,
		"unknown":     "ignored",
	}), &resp)

	s.Equal("B2-final", resp["name"])
	s.Equal("GA", resp["milestone"])
	s.Equal("", resp["description"])
	s.Equal(true, resp["is_active"])
	s.Equal("StarCraft", resp["product"])

	s.fault(s.call("Build.update", id, map[string]interface{}{"description": nil}),
		constants.FaultInvalidParams, `description must be a string`)
}

// Build.get / get_caseruns / get_runs

func (s *RPCSuite) TestBuildGet() {
	id := s.buildID("StarCraft", "B1")
	var resp map[string]interface{}
	s.result(s.call("Build.get", id), &resp)
	s.EqualValues(id, resp["build_id"])
	s.Equal("B1", resp["name"])
	s.EqualValues(s.seeded.Products["StarCraft"], resp["product_id"])
	s.Equal("first build", resp["description"])
	s.Equal(true, resp["is_active"])

	s.fault(s.call("Build.get", 9999), constants.FaultNotFound, `TestBuild matching query does not exist`)
	s.fault(s.call("Build.get", "1"), constants.FaultInvalidParams, `Invalid parameter`)
}

func (s *RPCSuite) TestBuildGetCaseRuns() {
	var caseRuns []map[string]interface{}
	s.result(s.call("Build.get_caseruns", s.buildID("StarCraft", "B1")), &caseRuns)
	s.Require().Len(caseRuns, 3)
	s.Equal("Login works", caseRuns[0]["case"])
	s.Equal("Logout works", caseRuns[1]["case"])
	s.Equal("Unsorted case", caseRuns[2]["case"])

	s.result(s.call("Build.get_caseruns", s.buildID("WarCraft", "B1")), &caseRuns)
	s.Empty(caseRuns)

	s.fault(s.call("Build.get_caseruns", 9999), constants.FaultNotFound, `TestBuild`)
}

func (s *RPCSuite) TestBuildGetRuns() {
	var runs []map[string]interface{}
	s.result(s.call("Build.get_runs", s.buildID("StarCraft", "B1")), &runs)
	s.Require().Len(runs, 2)
	s.Equal("Nightly run", runs[0]["summary"])
	s.Equal("Weekly run", runs[1]["summary"])

	s.result(s.call("Build.get_runs", s.buildID("StarCraft", "B2")), &runs)
	s.Require().Len(runs, 1)
	s.Equal("Other build run", runs[0]["summary"])

	s.fault(s.call("Build.get_runs", 9999), constants.FaultNotFound, `TestBuild`)
}

// Build.check_build

func (s *RPCSuite) TestCheckBuild() {
	var resp map[string]interface{}
	s.result(s.call("Build.check_build", "B1", "WarCraft"), &resp)
	s.EqualValues(s.buildID("WarCraft", "B1"), resp["build_id"])

	s.result(s.call("Build.check_build", "B2", s.seeded.Products["StarCraft"]), &resp)
	s.EqualValues(s.buildID("StarCraft", "B2"), resp["build_id"])

	s.fault(s.call("Build.check_build", "AAAAAAAAAAAAAA", "StarCraft"), constants.FaultNotFound, `TestBuild matching query does not exist`)
	s.fault(s.call("Build.check_build", "B1", "AAAAAAAAAAAAAA"), constants.FaultNotFound, `Product matching query does not exist`)
	s.fault(s.call("Build.check_build", nil, "StarCraft"), constants.FaultNotFound, `TestBuild matching query does not exist`)
	s.fault(s.call("Build.check_build", "B1", ""), constants.FaultInvalidParams, `Got empty product name`)
	s.fault(s.call("Build.check_build", "B1", true), constants.FaultInvalidParams, `The type of product is not recognizable`)
}

// Build.filter

func (s *RPCSuite) TestBuildFilter() {
	var builds []map[string]interface{}
	s.result(s.call("Build.filter", map[string]interface{}{"name": "B1"}), &builds)
	s.Len(builds, 2)

	s.result(s.call("Build.filter", map[string]interface{}{"product": "StarCraft", "is_active": true}), &builds)
	s.Require().Len(builds, 1)
	s.Equal("B1", builds[0]["name"])

	s.fault(s.call("Build.filter", map[string]interface{}{"color": "red"}), constants.FaultInvalidParams, `unsupported filter key`)
}

func TestBodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _ := testdb.Seeded(t)
	cfg := testConfig()
	cfg.RPC.MaxBodyBytes = 16
	engine, _ := router.Setup(cfg, db)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/json-rpc/",
		bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"Auth.login","params":["a","b"]}`)))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "body too large")
}
