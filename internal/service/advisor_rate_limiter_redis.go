package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// AdvisorQuota es la decision del limitador para una llamada al asesor.
type AdvisorQuota struct {
	Allowed    bool
	Used       int
	RetryAfter time.Duration
}

// AdvisorRateLimiter protege la cuota del proveedor por cliente.
type AdvisorRateLimiter interface {
	Allow(ctx context.Context, clientKey string) AdvisorQuota
}

// La ventana es fija y empieza con la primera llamada del cliente. El script
// devuelve {llamadas en la ventana, ms restantes} y repara claves sin TTL.
const advisorQuotaScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`

const advisorQuotaTimeout = 500 * time.Millisecond

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisAdvisorRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

// NewRedisAdvisorRateLimiter limita a max llamadas por cliente y ventana.
// scope separa las cuotas de despliegues que comparten Redis (por ejemplo,
// el schema activo).
func NewRedisAdvisorRateLimiter(client *redis.Client, scope string, window time.Duration, max int) AdvisorRateLimiter {
	if client == nil {
		return nil
	}
	return newAdvisorRateLimiter(client, scope, window, max)
}

func newAdvisorRateLimiter(client redisEvaler, scope string, window time.Duration, max int) *redisAdvisorRateLimiter {
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		scope = "default"
	}
	return &redisAdvisorRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "advisor:rl:" + scope + ":",
	}
}

func (l *redisAdvisorRateLimiter) key(clientKey string) string {
	k := strings.ToLower(strings.TrimSpace(clientKey))
	if k == "" {
		k = "anonymous"
	}
	return l.prefix + k
}

// Allow falla abierto: si Redis no responde la prediccion sigue y el
// proveedor aplica su propia cuota, que el asesor ya reporta como rate_limited.
func (l *redisAdvisorRateLimiter) Allow(ctx context.Context, clientKey string) AdvisorQuota {
	if l == nil || l.client == nil {
		return AdvisorQuota{Allowed: true}
	}
	ctx, cancel := context.WithTimeout(ctx, advisorQuotaTimeout)
	defer cancel()

	res, err := l.client.Eval(ctx, advisorQuotaScript, []string{l.key(clientKey)}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		return AdvisorQuota{Allowed: true}
	}
	used := int(res[0])
	if used <= l.max {
		return AdvisorQuota{Allowed: true, Used: used}
	}
	return AdvisorQuota{Used: used, RetryAfter: time.Duration(res[1]) * time.Millisecond}
}
