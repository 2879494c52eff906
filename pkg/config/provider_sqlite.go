package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	locations, err := s.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	config.Locations = locations

	server, err := s.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = storage

	config.SolarErrorMinutes, err = s.getSolarError()
	if err != nil {
		return nil, fmt.Errorf("failed to load solver settings: %w", err)
	}

	return config, nil
}

// GetLocations returns observer locations from the database
func (s *SQLiteProvider) GetLocations() ([]LocationData, error) {
	query := `
		SELECT name, latitude, longitude, utc_offset_minutes, timezone
		FROM locations
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []LocationData
	for rows.Next() {
		var loc LocationData
		var lat, lon sql.NullFloat64
		var offset sql.NullInt64
		var timezone sql.NullString

		if err := rows.Scan(&loc.Name, &lat, &lon, &offset, &timezone); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}

		// NULL columns stay nil so the missing-configuration check fires
		// when the location is resolved.
		if lat.Valid {
			v := lat.Float64
			loc.Latitude = &v
		}
		if lon.Valid {
			v := lon.Float64
			loc.Longitude = &v
		}
		if offset.Valid {
			v := int(offset.Int64)
			loc.UTCOffsetMinutes = &v
		}
		if timezone.Valid {
			loc.Timezone = timezone.String
		}

		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// GetServerConfig returns the HTTP server configuration
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	server := &ServerData{}
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'listen_addr'`).Scan(&server.ListenAddr)
	if err == sql.ErrNoRows {
		return server, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query server settings: %w", err)
	}
	return server, nil
}

// GetStorageConfig returns the almanac storage configuration, nil when no
// archive is configured
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	var dsn string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'postgres_connection_string'`).Scan(&dsn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage settings: %w", err)
	}
	return &StorageData{Postgres: &PostgresData{ConnectionString: dsn}}, nil
}

func (s *SQLiteProvider) getSolarError() (float64, error) {
	var v float64
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'solar_error_minutes'`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Close closes the underlying database handle
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
