package generate

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/runnerr0/historygen/internal/config"
	"github.com/runnerr0/historygen/internal/storage"
)

// Outputs holds the open History and Favicons databases of a run.
type Outputs struct {
	History  *storage.HistoryStore
	Favicons *storage.FaviconStore

	historyDB  *sql.DB
	faviconsDB *sql.DB
}

// Templates returns the template/output pairs for paths.
func Templates(paths config.PathsConfig) []storage.Target {
	return []storage.Target{
		{Template: paths.HistoryTemplate(), Output: paths.HistoryOutput()},
		{Template: paths.FaviconsTemplate(), Output: paths.FaviconsOutput()},
	}
}

// OpenOutputs opens the existing output databases.
func OpenOutputs(paths config.PathsConfig) (*Outputs, error) {
	o := &Outputs{}

	var err error
	o.historyDB, err = storage.Open(paths.HistoryOutput())
	if err != nil {
		return nil, fmt.Errorf("open history output: %w", err)
	}

	o.faviconsDB, err = storage.Open(paths.FaviconsOutput())
	if err != nil {
		o.Close()
		return nil, fmt.Errorf("open favicons output: %w", err)
	}

	o.History, err = storage.NewHistoryStore(o.historyDB)
	if err != nil {
		o.Close()
		return nil, err
	}

	o.Favicons, err = storage.NewFaviconStore(o.faviconsDB)
	if err != nil {
		o.Close()
		return nil, err
	}

	return o, nil
}

// Close closes the stores and their databases.
func (o *Outputs) Close() error {
	var errs []error
	if o.History != nil {
		errs = append(errs, o.History.Close())
	}
	if o.Favicons != nil {
		errs = append(errs, o.Favicons.Close())
	}
	if o.historyDB != nil {
		errs = append(errs, o.historyDB.Close())
	}
	if o.faviconsDB != nil {
		errs = append(errs, o.faviconsDB.Close())
	}
	return errors.Join(errs...)
}

// SchemaVersions reports the meta.version of both outputs.
func (o *Outputs) SchemaVersions() (history, favicons int, err error) {
	history, err = storage.NewHistoryMigrationRunner(o.historyDB).Version()
	if err != nil {
		return 0, 0, fmt.Errorf("history schema version: %w", err)
	}
	favicons, err = storage.NewFaviconsMigrationRunner(o.faviconsDB).Version()
	if err != nil {
		return 0, 0, fmt.Errorf("favicons schema version: %w", err)
	}
	return history, favicons, nil
}
