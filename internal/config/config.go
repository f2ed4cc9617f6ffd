package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppCredentials identifies one Podio app ("tenant"): each app authenticates
// with its own app_id/app_token pair under the shared OAuth client.
type AppCredentials struct {
	AppID    string
	AppToken string
}

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	PodioClientID     string
	PodioClientSecret string
	PodioTokenURL     string
	PodioAPIURL       string
	PodioApps         map[string]AppCredentials // tenant key -> credentials

	LeadsDateExternalID string // empty = auto-pick first date field
	LeadsForceRange     bool

	Timezone string // location used for "now" defaults and log timestamps

	PropertiesProgressFile string
	PhonesProgressFile     string
	PropertiesSyncCron     string // empty = not scheduled
	PhonesSyncCron         string

	// Consumed for the transcription/summarization and messaging collaborators;
	// their internals live outside this service.
	OpenAIAPIKey     string
	TwilioAccountSID string
	TwilioAuthToken  string
}

// Tenant keys for the three Podio apps this service talks to.
const (
	TenantContacts   = "contactos"
	TenantLeads      = "leads"
	TenantProperties = "propiedades"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "inmo-sync"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "inmo-sync"),

		PodioClientID:     getEnv("PODIO_CLIENT_ID", ""),
		PodioClientSecret: getEnv("PODIO_CLIENT_SECRET", ""),
		PodioTokenURL:     getEnv("PODIO_TOKEN_URL", "https://podio.com/oauth/token"),
		PodioAPIURL:       getEnv("PODIO_API_URL", "https://api.podio.com"),
		PodioApps: map[string]AppCredentials{
			TenantContacts: {
				AppID:    getEnv("PODIO_CONTACTOS_APP_ID", ""),
				AppToken: getEnv("PODIO_CONTACTOS_APP_TOKEN", ""),
			},
			TenantLeads: {
				AppID:    getEnv("PODIO_LEADS_APP_ID", ""),
				AppToken: getEnv("PODIO_LEADS_APP_TOKEN", ""),
			},
			TenantProperties: {
				AppID:    getEnv("PODIO_PROPIEDADES_APP_ID", ""),
				AppToken: getEnv("PODIO_PROPIEDADES_APP_TOKEN", ""),
			},
		},

		LeadsDateExternalID: getEnv("PODIO_LEADS_DATE_EXTERNAL_ID", ""),
		LeadsForceRange:     getEnv("PODIO_LEADS_FORCE_RANGE", "0") == "1",

		Timezone: getEnv("TIMEZONE", "America/Argentina/Cordoba"),

		PropertiesProgressFile: getEnv("PROPERTIES_PROGRESS_FILE", "progreso-propiedades.json"),
		PhonesProgressFile:     getEnv("PHONES_PROGRESS_FILE", "progreso-telefonos.json"),
		PropertiesSyncCron:     getEnv("SYNC_PROPERTIES_CRON", ""),
		PhonesSyncCron:         getEnv("SYNC_PHONES_CRON", ""),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// ValidatePodio checks that the OAuth client and every tenant app have
// credentials. The batch binaries call this up front and abort on failure;
// the API server only logs the problem so unrelated endpoints keep working.
func (c *Config) ValidatePodio() error {
	if c.PodioClientID == "" || c.PodioClientSecret == "" {
		return fmt.Errorf("PODIO_CLIENT_ID / PODIO_CLIENT_SECRET not configured")
	}
	for tenant, creds := range c.PodioApps {
		if creds.AppID == "" || creds.AppToken == "" {
			return fmt.Errorf("missing app credentials for tenant %q", tenant)
		}
	}
	return nil
}

// Location resolves the configured timezone, falling back to local time when
// the name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
