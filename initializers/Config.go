package initializers

import "os"

type Config struct {
	Port            string
	MongoURI        string
	DBName          string
	SecretKey       string
	CORSOrigins     []string
	LegacyLoginPort string
}

func LoadConfig() Config {
	return Config{
		Port:            getenv("PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getenv("DB_NAME", "campusconnect"),
		SecretKey:       os.Getenv("SECRET_KEY"),
		CORSOrigins:     []string{getenv("CORS_ORIGIN", "http://localhost:3000")},
		LegacyLoginPort: os.Getenv("LEGACY_LOGIN_PORT"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
