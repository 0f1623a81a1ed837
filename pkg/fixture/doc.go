// Package fixture defines fixture manifests and turns them into load orders.
//
// # Manifests
//
// A manifest names a set of fixtures and the fixtures each one depends on.
// It can be written as TOML, YAML or JSON; [ReadFile] picks the decoder from
// the file extension:
//
//	name = "shop"
//
//	[[fixture]]
//	name = "orgs"
//	file = "data/orgs.json"
//
//	[[fixture]]
//	name = "users"
//	depends_on = ["orgs"]
//
// YAML and JSON manifests use the key "fixtures" for the list. Unknown keys
// are rejected in every format.
//
// # Records
//
// A fixture carries its records inline ("records") or in a file ("file")
// relative to the manifest directory. Record files may be a JSON array of
// objects, a YAML sequence of mappings, or a TOML document with a
// [[records]] array. A fixture with neither is valid and only groups its
// dependencies.
//
// # Ordering
//
// [Manifest.Graph] registers every fixture in declaration order before adding
// any dependency, so a fixture may depend on one declared after it.
// [Manifest.Order] resolves the graph built from the manifest: all fixtures,
// one fixture, or a subset, depending on how many names are passed. Graph
// errors are reported as [errors.Error] values with the codes
// MISSING_DEPENDENCY, CIRCULAR_DEPENDENCY and FIXTURE_NOT_FOUND.
//
// [errors.Error]: github.com/matzehuels/fixturegraph/pkg/errors
package fixture
