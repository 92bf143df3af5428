package stub

import (
	"encoding/json"
	"net/http"
	"testing"
)

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func doGraphQL(t *testing.T, srv *Server, token, query string, variables map[string]any) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	rec := doJSON(t, srv, http.MethodPost, "/graphql", token, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("graphql status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp gqlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestGraphQL_LoginMutation(t *testing.T) {
	srv := newTestServer(t)
	resp := doGraphQL(t, srv, "", `
		mutation {
		  login(email: "demo@example.com", password: "demo-password") {
		    user { id email role }
		    accessToken
		    refreshToken
		  }
		}`, nil)

	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	var data struct {
		Login struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"login"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Login.AccessToken == "" || data.Login.RefreshToken == "" {
		t.Fatal("login returned empty tokens")
	}
	if data.Login.User.Email != "demo@example.com" {
		t.Fatalf("user email = %q", data.Login.User.Email)
	}
}

func TestGraphQL_LoginBadPassword(t *testing.T) {
	srv := newTestServer(t)
	resp := doGraphQL(t, srv, "", `
		mutation {
		  login(email: "demo@example.com", password: "wrong-password") {
		    accessToken
		  }
		}`, nil)

	if len(resp.Errors) == 0 {
		t.Fatal("expected an error for bad credentials")
	}
	if code, _ := resp.Errors[0].Extensions["code"].(string); code == "UNAUTHENTICATED" {
		t.Fatal("bad credentials must not look like an expired session")
	}
}

func TestGraphQL_MeWithoutTokenIsUnauthenticated(t *testing.T) {
	srv := newTestServer(t)
	resp := doGraphQL(t, srv, "", `query { me { id } }`, nil)

	if len(resp.Errors) == 0 {
		t.Fatal("expected UNAUTHENTICATED error")
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	if code != "UNAUTHENTICATED" {
		t.Fatalf("extensions.code = %q, want UNAUTHENTICATED", code)
	}
}

func TestGraphQL_MeWithToken(t *testing.T) {
	srv := newTestServer(t)
	res := loginDemo(t, srv)

	resp := doGraphQL(t, srv, res.AccessToken, `query { me { id email name } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	var data struct {
		Me struct {
			ID string `json:"id"`
		} `json:"me"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Me.ID != res.User.ID {
		t.Fatalf("me id = %q, want %q", data.Me.ID, res.User.ID)
	}
}

func TestGraphQL_LogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	res := loginDemo(t, srv)

	resp := doGraphQL(t, srv, res.AccessToken, `mutation { logout { success } }`, nil)
	if len(resp.Errors) != 0 {
		t.Fatalf("logout errors: %+v", resp.Errors)
	}

	resp = doGraphQL(t, srv, res.AccessToken, `query { me { id } }`, nil)
	if len(resp.Errors) == 0 {
		t.Fatal("revoked token still accepted")
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	if code != "UNAUTHENTICATED" {
		t.Fatalf("extensions.code = %q, want UNAUTHENTICATED", code)
	}
}

func TestGraphQL_RefreshTokenMutation(t *testing.T) {
	srv := newTestServer(t)
	res := loginDemo(t, srv)

	resp := doGraphQL(t, srv, "", `
		mutation Refresh($refreshToken: String!) {
		  refreshToken(refreshToken: $refreshToken) {
		    accessToken
		  }
		}`, map[string]any{"refreshToken": res.RefreshToken})
	if len(resp.Errors) != 0 {
		t.Fatalf("refresh errors: %+v", resp.Errors)
	}
	var data struct {
		RefreshToken struct {
			AccessToken string `json:"accessToken"`
		} `json:"refreshToken"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.RefreshToken.AccessToken == "" {
		t.Fatal("refresh returned no access token")
	}
}

func TestGraphQL_UsersPageMeta(t *testing.T) {
	srv := newTestServer(t)
	res := loginDemo(t, srv)

	resp := doGraphQL(t, srv, res.AccessToken, `
		query {
		  users(page: 1, pageSize: 10) {
		    data { id email }
		    meta { page pageSize total totalPages }
		  }
		}`, nil)
	if len(resp.Errors) != 0 {
		t.Fatalf("users errors: %+v", resp.Errors)
	}
	var data struct {
		Users struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
			Meta struct {
				Total int `json:"total"`
			} `json:"meta"`
		} `json:"users"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Users.Meta.Total != 1 || len(data.Users.Data) != 1 {
		t.Fatalf("users page = %+v", data.Users)
	}
}
