package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/musiclabel/internal/auth"
	"github.com/desertthunder/musiclabel/internal/shared"
)

type roleView struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type claimsView struct {
	Subject     string   `json:"subject,omitempty"`
	Permissions []string `json:"permissions"`
	Granted     *bool    `json:"granted,omitempty"`
}

type tokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Expiry      string `json:"expiry,omitempty"`
}

// AuthRoles lists the development tokens and the permissions each one grants.
func (r *Runner) AuthRoles(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	verifier := auth.NewStaticVerifier(config.Auth.Tokens)
	roles := []roleView{}
	for _, role := range verifier.Roles() {
		perms, _ := verifier.Permissions(role)
		roles = append(roles, roleView{Role: role, Permissions: perms})
	}

	if cmd.Bool("json") {
		return r.writeJSON(roles, true)
	}

	if len(roles) == 0 {
		return r.writePlain("no development tokens configured\n")
	}
	for _, role := range roles {
		if err := r.writePlain("%-12s %s\n", role.Role, strings.Join(role.Permissions, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// AuthVerify runs a credential through the configured verification strategy and prints its claims.
func (r *Runner) AuthVerify(ctx context.Context, cmd *cli.Command) error {
	token := cmd.StringArg("token")
	if token == "" {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(config.Auth, r.httpClient)
	if err != nil {
		return err
	}

	claims, err := verifier.Verify(ctx, token)
	if err != nil {
		return err
	}

	view := claimsView{Subject: claims.Subject, Permissions: claims.Permissions}
	if perm := cmd.String("permission"); perm != "" {
		granted := auth.Authorize(perm, claims) == nil
		view.Granted = &granted
	}
	return r.writeJSON(view, true)
}

// AuthToken requests an access token from the identity provider using the client credentials grant.
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	cc, err := clientCredentials(config.Auth, cmd.String("client-id"), cmd.String("client-secret"))
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	token, err := cc.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}

	if cmd.Bool("raw") {
		return r.writePlain("%s\n", token.AccessToken)
	}

	view := tokenView{AccessToken: token.AccessToken, TokenType: token.Type()}
	if !token.Expiry.IsZero() {
		view.Expiry = token.Expiry.Format(time.RFC3339)
	}
	return r.writeJSON(view, true)
}

// clientCredentials builds the token request for the configured domain. Flag values take precedence
// over the [auth.client] table.
func clientCredentials(cfg shared.AuthConfig, clientID, clientSecret string) (*clientcredentials.Config, error) {
	domain := strings.TrimSuffix(strings.TrimPrefix(cfg.Domain, "https://"), "/")
	if domain == "" {
		return nil, fmt.Errorf("%w: auth.domain is empty", shared.ErrMissingConfig)
	}

	if clientID == "" {
		clientID = cfg.Client.ClientID
	}
	if clientSecret == "" {
		clientSecret = cfg.Client.ClientSecret
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret", shared.ErrMissingArgument)
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     "https://" + domain + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if cfg.Audience != "" {
		cc.EndpointParams = map[string][]string{"audience": {cfg.Audience}}
	}
	return cc, nil
}
