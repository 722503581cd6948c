// Package file provides a file-backed cookie store for the jar's Store
// plugin contract. Cookies live in the in-memory reference index and every
// mutation is written through as a pretty-printed JSON snapshot, so the jar
// survives process restarts.
//
// The filesystem is abstracted behind afero.Fs: production code passes
// afero.NewOsFs(), tests pass afero.NewMemMapFs() and never touch disk.
//
//	fs := afero.NewOsFs()
//	store, err := file.New(fs, "/var/lib/app/cookies.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	j := jar.New(jar.WithStore(store))
//
// Write-through can be disabled with WithoutAutoSync for batch imports,
// followed by one explicit Sync.
package file
