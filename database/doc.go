// Package database provides fluent SELECT builders on top of a types.Client.
//
// Two builders share the WHERE and ORDER BY accumulation rules of package
// clause:
//
//   - ImmediateBuilder renders and executes in one call (GetAll, GetOne).
//   - DeferredBuilder keeps the rendered statement (BuildQuery), runs it on
//     demand (RunQuery) and can combine statements with UNION
//     (AddQueryToUnion, BuildUnionQuery).
//
// Example:
//
//	client, err := database.NewClient(&cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	rows, err := database.NewDeferredBuilder(client).
//	    Where("age", 18, clause.Op(">")).
//	    Where("name", "Bob", clause.As(clause.ValueString)).
//	    Sort("age").
//	    BuildQuery("users").
//	    RunQuery(ctx)
//	// SELECT * FROM users WHERE age > 18 AND name = 'Bob' ORDER BY age ASC
//
// Values are interpolated into the statement text. Nothing is escaped or
// bound as a parameter, so callers must sanitize their input.
package database
