package specmap

import (
	"context"
	"encoding/json"
	"path"

	"github.com/goccy/go-yaml"

	"github.com/specmap/specmap/internal/editor"
	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/differ"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/merge"
	"github.com/specmap/specmap/pkg/specs"
)

// RecordFixup persists the hand edit that turns preEdit into postEdit as a
// replayable diff. When a fixup is already recorded for the document, the
// new diff is computed against the original unedited form, so successive
// edit sessions compose into one diff instead of stacking. An empty diff
// writes nothing; an edit that reverts the recorded fixup removes it.
func (c *collection) RecordFixup(preEdit, postEdit specs.Document) error {
	id, err := preEdit.Identity()
	if err != nil {
		return err
	}
	rel := path.Join(id.Dir(), constants.FixupFile)

	original := preEdit
	var existing differ.Diff
	found, err := c.store.Read(rel, &existing)
	if err != nil {
		return err
	}
	if found {
		original, err = differ.Unpatch(preEdit, existing)
		if err != nil {
			return &errors.FixupError{Path: id.Dir(), Err: err}
		}
	}

	d, err := differ.Compare(original, postEdit)
	if err != nil {
		return err
	}
	if len(d) == 0 {
		if found {
			// The edit brought the document back to its unedited form;
			// a stale fixup left behind would replay the undone changes.
			if err := c.store.Remove(rel); err != nil {
				return err
			}
			c.log.Info().Str("identity", id.String()).Msg("edit reverted the recorded fixup, removed")
			return nil
		}
		c.log.Info().Str("identity", id.String()).Msg("no changes, fixup not recorded")
		return nil
	}
	if err := c.store.WriteJSON(rel, d); err != nil {
		return err
	}
	c.log.Info().
		Str("identity", id.String()).
		Int("operations", len(d)).
		Msg("recorded fixup")
	return nil
}

// Fix opens the stored canonical document in the external editor as YAML
// and records the resulting edit as a fixup diff. An abandoned or unchanged
// editor session records nothing.
func (c *collection) Fix(ctx context.Context, idPath string) error {
	id, err := specs.ParseIdentity(idPath)
	if err != nil {
		return err
	}
	rel := path.Join(id.Dir(), constants.SwaggerJSON)
	if !c.store.Exists(rel) {
		return errors.WrapResource("edit", "document", idPath, errors.ErrNotFound)
	}
	preEdit, err := c.store.ReadJSON(rel)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(preEdit)
	if err != nil {
		return errors.WrapParse("json", rel, err)
	}
	text, err := yaml.JSONToYAML(raw)
	if err != nil {
		return errors.WrapParse("yaml", rel, err)
	}

	edited, err := editor.Edit(ctx, text, ".yaml")
	if err != nil {
		if errors.IsEditAborted(err) {
			c.log.Info().Str("identity", idPath).Msg("edit aborted, nothing recorded")
			return nil
		}
		return err
	}

	editedJSON, err := yaml.YAMLToJSON(edited)
	if err != nil {
		return errors.WrapParse("yaml", rel, err)
	}
	var postEdit specs.Document
	if err := json.Unmarshal(editedJSON, &postEdit); err != nil {
		return errors.WrapParse("json", rel, err)
	}

	return c.RecordFixup(preEdit, postEdit)
}

// AddPatch folds new curated data into the persisted patch layer at the
// identity path. Composition uses merge-patch semantics, so re-adding the
// same data is a no-op and the new layer wins on leaf conflicts.
func (c *collection) AddPatch(idPath string, patch specs.Document) error {
	id, err := specs.ParseIdentity(idPath)
	if err != nil {
		return err
	}
	rel := path.Join(id.Dir(), constants.PatchFile)
	existing, err := c.store.ReadJSON(rel)
	if err != nil {
		return err
	}
	combined, err := merge.Compose(existing, patch)
	if err != nil {
		return err
	}
	if err := c.store.WriteJSON(rel, combined); err != nil {
		return err
	}
	c.log.Info().Str("identity", id.String()).Str("path", rel).Msg("updated patch layer")
	return nil
}
