package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/fixmyward/fixmyward/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie
const CookieName = "fix_my_ward_session"

// Session keys
const (
	KeyAccountID = "account_id"
	KeyName      = "name"
	KeyPhone     = "phone"
	KeyRole      = "role"
	KeyWardID    = "ward_id"
)

// NewSessionStore creates the session store. Sessions live in Redis database 1 when a cache
// client is configured, in process memory otherwise.
func NewSessionStore(cacheClient *goredis.Client) *session.Store {
	cfg := session.Config{
		CookieHTTPOnly: true,
		CookieSecure:   env.GetBool("SESSION_COOKIE_SECURE", false),
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     env.GetDuration("SESSION_TTL", 24*time.Hour),
		KeyLookup:      "cookie:" + CookieName,
	}

	if cacheClient != nil {
		host := "localhost"
		port := 6379
		if h, p, err := net.SplitHostPort(cacheClient.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		cfg.Storage = redis.New(redis.Config{
			Host:     host,
			Port:     port,
			Password: cacheClient.Options().Password,
			Database: 1, // cache uses DB 0
			Reset:    false,
		})
	} else {
		log.Info("[Session] Using in-memory session storage")
	}

	return session.New(cfg)
}

// Start binds the account identity to a fresh session
func Start(c *fiber.Ctx, store *session.Store, account *models.Account) error {
	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}

	sess.Set(KeyAccountID, account.ID)
	sess.Set(KeyName, account.Name)
	sess.Set(KeyPhone, account.Phone)
	sess.Set(KeyRole, account.Role)
	sess.Set(KeyWardID, account.WardID)
	return sess.Save()
}

// End destroys the current session. Ending a missing session is not an error.
func End(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}

// Load reads the identity bound to the current session, anonymous if there is none
func Load(c *fiber.Ctx, store *session.Store) usercontext.UserContext {
	sess, err := store.Get(c)
	if err != nil {
		return usercontext.UserContext{}
	}

	id := stringValue(sess.Get(KeyAccountID))
	if id == "" {
		return usercontext.UserContext{}
	}

	return usercontext.UserContext{
		AccountID:  id,
		Name:       stringValue(sess.Get(KeyName)),
		Phone:      stringValue(sess.Get(KeyPhone)),
		Role:       stringValue(sess.Get(KeyRole)),
		WardID:     stringValue(sess.Get(KeyWardID)),
		IsLoggedIn: true,
	}
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
