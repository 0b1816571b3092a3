package glossary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// purviewResource Azure AD 中 Purview 的资源标识
const purviewResource = "73c2949e-da2d-457a-9607-fcc665198967"

// Authenticator 请求认证
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// BasicAuth 用户名密码认证（Apache Atlas）
type BasicAuth struct {
	Username string
	Password string
}

// Authenticate 设置 Basic 认证头
func (a BasicAuth) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// ServicePrincipalAuth Azure 服务主体认证（Purview）
type ServicePrincipalAuth struct {
	source oauth2.TokenSource
}

// NewServicePrincipalAuth 创建服务主体认证，令牌自动缓存与刷新
func NewServicePrincipalAuth(tenantID, clientID, clientSecret string) *ServicePrincipalAuth {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/token", url.PathEscape(tenantID)),
		EndpointParams: url.Values{
			"resource": {purviewResource},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return NewTokenSourceAuth(cfg.TokenSource(context.Background()))
}

// NewTokenSourceAuth 使用任意令牌源创建认证
func NewTokenSourceAuth(source oauth2.TokenSource) *ServicePrincipalAuth {
	return &ServicePrincipalAuth{source: oauth2.ReuseTokenSource(nil, source)}
}

// Authenticate 设置 Bearer 令牌
func (a *ServicePrincipalAuth) Authenticate(_ context.Context, req *http.Request) error {
	token, err := a.source.Token()
	if err != nil {
		return fmt.Errorf("failed to acquire token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
