package employee

import "log/slog"

// DirectoryRepository is the exact-name lookup against the canonical
// employee directory.
type DirectoryRepository interface {
	GetIDByName(name string) (*int64, error)
	Exists(id int64) (bool, error)
}

// AliasLookup is the curated extracted-name mapping consulted when the
// directory has no exact match.
type AliasLookup interface {
	ResolveExtractedName(name string) (*int64, error)
}

// Resolver maps free-text names appearing in statements to directory
// employees. The two lookups stay sequential and distinct: a directory miss
// is the common case, an alias miss means the name needs human curation.
type Resolver struct {
	directory DirectoryRepository
	aliases   AliasLookup
	logger    *slog.Logger
}

func NewResolver(directory DirectoryRepository, aliases AliasLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		directory: directory,
		aliases:   aliases,
		logger:    logger,
	}
}

// Resolve returns the employee id for an extracted name, or nil when neither
// the directory nor the alias table knows it. Matching is exact-string only.
func (r *Resolver) Resolve(extractedName string) (*int64, error) {
	if extractedName == "" {
		return nil, nil
	}

	id, err := r.directory.GetIDByName(extractedName)
	if err != nil {
		r.logger.Error("directory lookup failed", "name", extractedName, "error", err)
		return nil, err
	}
	if id != nil {
		return id, nil
	}

	id, err = r.aliases.ResolveExtractedName(extractedName)
	if err != nil {
		r.logger.Error("alias lookup failed", "name", extractedName, "error", err)
		return nil, err
	}
	if id == nil {
		r.logger.Debug("name unresolved, alias curation needed", "name", extractedName)
	}
	return id, nil
}
