/*
Package instance persists the animation state of widget placements.

Each instance lives in its own JSON document and every Save overwrites the
whole document. There is no partial update API, so two processes racing on
one instance lose at most one whole write, never mix fields.

# Storage Structure

	State/instances/
	  ├── inst_01HZX3Q7J5M2K8W9C4T6V0B1N3.json
	  └── inst_01HZX3QA0F8RB7YV2D5E6K9M1P.json

# Example Usage

	repo := instance.NewRepository(store, logger)

	inst, err := repo.Create(ctx, "abc")
	inst.Begin(repo.Now())
	err = repo.Save(ctx, inst)

	loaded, ok := repo.Load(ctx, inst.InstanceID)

	// Nightly sweep
	result, err := repo.Purge(ctx, 30*24*time.Hour)
*/
package instance
