package glauber

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type CentralityParametersEntry struct {
	System   string  `db:"System"`
	Npp      float64 `db:"Npp"`
	K        float64 `db:"K"`
	X        float64 `db:"X"`
	NppError float64 `db:"NppError"`
	XError   float64 `db:"XError"`
	P0       float64 `db:"P0"`
	P1       float64 `db:"P1"`
	P2       float64 `db:"P2"`
	P3       float64 `db:"P3"`
	P4       float64 `db:"P4"`
	P0Error  float64 `db:"P0Error"`
	P1Error  float64 `db:"P1Error"`
	MultCap  float64 `db:"MultCap"`
}

type CentralityCutEntry struct {
	Bin int     `db:"Bin"`
	Cut float64 `db:"Cut"`
}

// LoadCentralityMaker reads the centrality parameters of a collision system
// from the CentralityParameters and CentralityCuts tables.
func LoadCentralityMaker(db *sqlx.DB, system string) (*CentralityMaker, error) {
	query := "SELECT System, Npp, K, X, NppError, XError, P0, P1, P2, P3, P4, P0Error, P1Error, MultCap FROM CentralityParameters WHERE LOWER(System) = LOWER(?)"
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading centrality parameters for %s from database", system)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	var entries []CentralityParametersEntry
	if err := db.Select(&entries, query, system); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	if len(entries) == 0 {
		return nil, &ErrUnknownSystem{System: system}
	}

	cutsQuery := "SELECT Bin, Cut FROM CentralityCuts WHERE LOWER(System) = LOWER(?) ORDER BY Bin"
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", cutsQuery)
		logger.Info(message, "database")
	}
	rows, err := db.Queryx(cutsQuery, system)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var cuts []CentralityCutEntry
	for rows.Next() {
		result := CentralityCutEntry{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		cuts = append(cuts, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}

	params, err := centralityParametersFromEntries(entries[0], cuts)
	if err != nil {
		return nil, err
	}
	return NewCentralityMakerFromParameters(entries[0].System, params), nil
}

func centralityParametersFromEntries(entry CentralityParametersEntry, cuts []CentralityCutEntry) (CentralityParameters, error) {
	if len(cuts) != NCentralityBins {
		return CentralityParameters{}, fmt.Errorf("expected %d centrality cuts for %s, found %d", NCentralityBins, entry.System, len(cuts))
	}
	params := CentralityParameters{
		Npp:      entry.Npp,
		K:        entry.K,
		X:        entry.X,
		NppError: entry.NppError,
		XError:   entry.XError,
		Cuts:     make([]float64, NCentralityBins),
		Reweighting: ReweightingParameters{
			Par:             [5]float64{entry.P0, entry.P1, entry.P2, entry.P3, entry.P4},
			ParError:        [2]float64{entry.P0Error, entry.P1Error},
			MultiplicityCap: entry.MultCap,
		},
	}
	for _, c := range cuts {
		if c.Bin < 0 || c.Bin >= NCentralityBins {
			return CentralityParameters{}, fmt.Errorf("centrality cut bin out of range: %d", c.Bin)
		}
		params.Cuts[c.Bin] = c.Cut
	}
	for i := 1; i < NCentralityBins; i++ {
		if params.Cuts[i] < params.Cuts[i-1] {
			return CentralityParameters{}, fmt.Errorf("centrality cuts for %s are not increasing at bin %d", entry.System, i)
		}
	}
	return params, nil
}
