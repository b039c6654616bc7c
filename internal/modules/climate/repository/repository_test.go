package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"hawaii-climate/internal/migrate"
	"hawaii-climate/internal/modules/climate/types"
)

const seedSQL = `
INSERT INTO station (station, name, latitude, longitude, elevation) VALUES
  ('USC00519397', 'WAIKIKI 717.2, HI US', 21.2716, -157.8168, 3.0),
  ('USC00513117', 'KANEOHE 838.1, HI US', 21.4234, -157.8015, 14.6),
  ('USC00519281', 'WAIHEE 837.5, HI US', 21.45167, -157.84889, 32.9);

INSERT INTO measurement (station, date, prcp, tobs) VALUES
  ('USC00519397', '2016-08-22', 0.00, 80.0),
  ('USC00519397', '2016-08-23', 0.08, 81.0),
  ('USC00519397', '2017-08-23', NULL, 82.0),
  ('USC00519397', '2017-08-24', 0.00, 83.0),
  ('USC00519281', '2016-08-23', 1.79, 77.0),
  ('USC00519281', '2017-01-01', 0.29, 62.0),
  ('USC00519281', '2017-08-18', NULL, 79.0);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Fatalf("close db: %v", closeErr)
		}
	})
	if _, err := migrate.Run(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(seedSQL); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestNewRepository(t *testing.T) {
	if repo := NewRepository(setupTestDB(t)); repo == nil {
		t.Fatal("NewRepository returned nil")
	}
}

func TestVerify(t *testing.T) {
	t.Run("counts rows", func(t *testing.T) {
		db := setupTestDB(t)
		seed(t, db)

		stations, measurements, err := NewRepository(db).Verify()
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if stations != 3 || measurements != 7 {
			t.Errorf("Verify = (%d, %d); want (3, 7)", stations, measurements)
		}
	})

	t.Run("fails without schema", func(t *testing.T) {
		db, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			t.Fatalf("open db: %v", err)
		}
		defer func() { _ = db.Close() }()

		if _, _, err := NewRepository(db).Verify(); err == nil {
			t.Fatal("Verify on empty database = nil; want error")
		}
	})

	t.Run("fails when a queried column is missing", func(t *testing.T) {
		tests := []struct {
			name   string
			schema string
		}{
			{
				name: "station without name",
				schema: `CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp REAL, tobs REAL);`,
			},
			{
				name: "measurement without prcp",
				schema: `CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT, name TEXT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, tobs REAL);`,
			},
			{
				name: "measurement without tobs",
				schema: `CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT, name TEXT);
CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp REAL);`,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				db, err := sql.Open("sqlite3", ":memory:")
				if err != nil {
					t.Fatalf("open db: %v", err)
				}
				defer func() { _ = db.Close() }()
				db.SetMaxOpenConns(1)
				if _, err := db.Exec(tt.schema); err != nil {
					t.Fatalf("create schema: %v", err)
				}

				if _, _, err := NewRepository(db).Verify(); err == nil {
					t.Fatal("Verify = nil; want missing column error")
				}
			})
		}
	})
}

func TestAllStations_Empty(t *testing.T) {
	stations, err := NewRepository(setupTestDB(t)).AllStations()
	if err != nil {
		t.Fatalf("AllStations: %v", err)
	}
	if stations == nil {
		t.Fatal("AllStations returned nil slice; want empty")
	}
	if len(stations) != 0 {
		t.Fatalf("AllStations: got %d stations, want 0", len(stations))
	}
}

func TestAllStations_WithData(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	stations, err := NewRepository(db).AllStations()
	if err != nil {
		t.Fatalf("AllStations: %v", err)
	}
	if len(stations) != 3 {
		t.Fatalf("AllStations: got %d stations, want 3", len(stations))
	}
	// Insertion order.
	if stations[0].ID != "USC00519397" || stations[0].Name != "WAIKIKI 717.2, HI US" {
		t.Errorf("first station = %+v", stations[0])
	}
	if stations[2].ID != "USC00519281" {
		t.Errorf("last station = %+v; want USC00519281", stations[2])
	}
}

func TestMeasurements_Filters(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	repo := NewRepository(db)

	tests := []struct {
		name   string
		filter types.MeasurementFilter
		want   int
	}{
		{name: "no filter", filter: types.MeasurementFilter{}, want: 7},
		{name: "station only", filter: types.MeasurementFilter{StationID: "USC00519281"}, want: 3},
		{name: "lower bound inclusive", filter: types.MeasurementFilter{From: "2017-08-23"}, want: 2},
		{name: "upper bound inclusive", filter: types.MeasurementFilter{To: "2016-08-23"}, want: 3},
		{name: "window", filter: types.MeasurementFilter{From: "2016-08-23", To: "2017-08-23"}, want: 5},
		{name: "station and window", filter: types.MeasurementFilter{StationID: "USC00519397", From: "2016-08-23", To: "2017-08-23"}, want: 2},
		{name: "unknown station", filter: types.MeasurementFilter{StationID: "NOPE"}, want: 0},
		{name: "inverted range", filter: types.MeasurementFilter{From: "2017-01-01", To: "2016-01-01"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Measurements(tt.filter)
			if err != nil {
				t.Fatalf("Measurements: %v", err)
			}
			if got == nil {
				t.Fatal("Measurements returned nil slice")
			}
			if len(got) != tt.want {
				t.Fatalf("Measurements(%+v): got %d rows, want %d", tt.filter, len(got), tt.want)
			}
			for _, m := range got {
				if tt.filter.StationID != "" && m.StationID != tt.filter.StationID {
					t.Errorf("row station %q outside filter %q", m.StationID, tt.filter.StationID)
				}
				if tt.filter.From != "" && m.Date < tt.filter.From {
					t.Errorf("row date %s before %s", m.Date, tt.filter.From)
				}
				if tt.filter.To != "" && m.Date > tt.filter.To {
					t.Errorf("row date %s after %s", m.Date, tt.filter.To)
				}
			}
		})
	}
}

func TestMeasurements_NullPrecipitation(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)

	got, err := NewRepository(db).Measurements(types.MeasurementFilter{StationID: "USC00519397", From: "2017-08-23", To: "2017-08-23"})
	if err != nil {
		t.Fatalf("Measurements: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Precipitation != nil {
		t.Errorf("Precipitation = %v; want nil for NULL prcp", *got[0].Precipitation)
	}
	if got[0].Temperature != 82.0 {
		t.Errorf("Temperature = %v; want 82", got[0].Temperature)
	}

	got, err = NewRepository(db).Measurements(types.MeasurementFilter{StationID: "USC00519397", From: "2016-08-22", To: "2016-08-22"})
	if err != nil {
		t.Fatalf("Measurements: %v", err)
	}
	if len(got) != 1 || got[0].Precipitation == nil || *got[0].Precipitation != 0 {
		t.Errorf("zero precipitation must stay a recorded 0, got %+v", got)
	}
}
