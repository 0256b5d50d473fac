// Package app wires the widget services of one process.
//
// The app process, every widget host and each CLI invocation build their own
// Container over the same container directory:
//
//	c, err := app.New(config.LoadOrDefault())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	tl := c.Provider.Timeline(ctx, types.PlacementContext{Kind: types.KindSlotA})
package app
