package stub

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

type gqlContextKey struct{}

// unauthenticatedError carries the UNAUTHENTICATED extension clients key off.
type unauthenticatedError struct{}

func (unauthenticatedError) Error() string { return "authentication required" }

func (unauthenticatedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "UNAUTHENTICATED"}
}

// GraphQLHandler serves the /graphql endpoint: the same auth and directory
// operations as the REST surface, behind a single POST route.
type GraphQLHandler struct {
	schema  graphql.Schema
	issuer  *Issuer
	revoker *Revoker
	log     zerolog.Logger
}

func NewGraphQLHandler(users *UserStore, issuer *Issuer, revoker *Revoker, log zerolog.Logger) (*GraphQLHandler, error) {
	schema, err := buildSchema(users, issuer, revoker)
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	return &GraphQLHandler{schema: schema, issuer: issuer, revoker: revoker, log: log}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Serve executes one GraphQL request. Bearer handling is optional here:
// protected resolvers report UNAUTHENTICATED through the errors list instead
// of an HTTP status, which is what GraphQL clients expect.
func (h *GraphQLHandler) Serve() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req graphqlRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}

		ctx := c.Request().Context()
		if claims := h.bearerClaims(c); claims != nil {
			ctx = context.WithValue(ctx, gqlContextKey{}, claims)
		}

		result := graphql.Do(graphql.Params{
			Schema:         h.schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        ctx,
		})
		if result.HasErrors() {
			h.log.Debug().Int("errors", len(result.Errors)).Msg("graphql request finished with errors")
		}
		return c.JSON(http.StatusOK, result)
	}
}

// bearerClaims resolves the Authorization header to verified claims, or nil
// when the request is unauthenticated, the token fails verification, or the
// token has been revoked.
func (h *GraphQLHandler) bearerClaims(c echo.Context) *tokenClaims {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	claims, err := h.issuer.Verify(parts[1])
	if err != nil {
		return nil
	}
	revoked, err := h.revoker.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil || revoked {
		return nil
	}
	return claims
}

func claimsFromContext(ctx context.Context) (*tokenClaims, bool) {
	claims, ok := ctx.Value(gqlContextKey{}).(*tokenClaims)
	return claims, ok
}

func buildSchema(users *UserStore, issuer *Issuer, revoker *Revoker) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"avatar":    &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"user":         &graphql.Field{Type: graphql.NewNonNull(userType)},
			"accessToken":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"refreshToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	logoutPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LogoutPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	refreshPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RefreshPayload",
		Fields: graphql.Fields{
			"accessToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	pageMetaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageMeta",
		Fields: graphql.Fields{
			"page":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"pageSize":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"total":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalPages": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	userPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserPage",
		Fields: graphql.Fields{
			"data": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType)))},
			"meta": &graphql.Field{Type: graphql.NewNonNull(pageMetaType)},
		},
	})

	authPayload := func(user domain.User) (any, error) {
		pair, err := issuer.IssuePair(user)
		if err != nil {
			return nil, err
		}
		return domain.AuthResult{
			User:         user,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}, nil
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, ok := claimsFromContext(p.Context)
					if !ok {
						return nil, unauthenticatedError{}
					}
					return users.ByID(claims.Subject)
				},
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, ok := claimsFromContext(p.Context); !ok {
						return nil, unauthenticatedError{}
					}
					id, _ := p.Args["id"].(string)
					return users.ByID(id)
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewNonNull(userPageType),
				Args: graphql.FieldConfigArgument{
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"pageSize": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if _, ok := claimsFromContext(p.Context); !ok {
						return nil, unauthenticatedError{}
					}
					page, _ := p.Args["page"].(int)
					pageSize, _ := p.Args["pageSize"].(int)
					return users.List(page, pageSize)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)
					user, err := users.Authenticate(email, password)
					if err != nil {
						LoginsTotal.WithLabelValues("failure").Inc()
						return nil, err
					}
					LoginsTotal.WithLabelValues("success").Inc()
					return authPayload(user)
				},
			},
			"register": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					email, _ := p.Args["email"].(string)
					name, _ := p.Args["name"].(string)
					password, _ := p.Args["password"].(string)
					user, err := users.Create(email, name, password, domain.RoleUser)
					if err != nil {
						RegistrationsTotal.WithLabelValues("failure").Inc()
						return nil, err
					}
					RegistrationsTotal.WithLabelValues("success").Inc()
					return authPayload(user)
				},
			},
			"logout": &graphql.Field{
				Type: graphql.NewNonNull(logoutPayloadType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					claims, ok := claimsFromContext(p.Context)
					if !ok {
						return nil, unauthenticatedError{}
					}
					if err := revoker.Revoke(p.Context, claims.ID, claims.ExpiresAt.Time); err != nil {
						return nil, err
					}
					TokensRevokedTotal.Inc()
					return map[string]any{"success": true, "message": "logged out"}, nil
				},
			},
			"refreshToken": &graphql.Field{
				Type: graphql.NewNonNull(refreshPayloadType),
				Args: graphql.FieldConfigArgument{
					"refreshToken": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					raw, _ := p.Args["refreshToken"].(string)
					claims, err := issuer.Verify(raw)
					if err != nil {
						return nil, unauthenticatedError{}
					}
					revoked, err := revoker.IsRevoked(p.Context, claims.ID)
					if err != nil {
						return nil, err
					}
					if revoked {
						return nil, unauthenticatedError{}
					}
					user, err := users.ByID(claims.Subject)
					if err != nil {
						return nil, unauthenticatedError{}
					}
					pair, err := issuer.IssuePair(user)
					if err != nil {
						return nil, err
					}
					return map[string]any{"accessToken": pair.AccessToken}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
