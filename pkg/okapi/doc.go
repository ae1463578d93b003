// Package okapi provides the public types and interfaces for the Okapi
// client library: the Client interface, configuration, the tenant-scoped
// session model, the CQL query builder, the paginated record cursor, the
// cache abstraction with its backends, and the error taxonomy.
//
// Create clients with the folioclient package:
//
//	client, err := folioclient.New(ctx, &okapi.Config{
//		BaseURL:  "https://okapi.example.edu",
//		Tenant:   "diku",
//		Username: "vufind",
//		Password: "secret",
//	})
//	if err != nil {
//		return err
//	}
//
//	user, err := client.Users().GetByBarcode(ctx, "123456789")
//
// List endpoints return record cursors that lazily fetch pages using the
// server-reported (approximate) total record count:
//
//	cursor := client.Circulation().OpenLoans(ctx, user.ID)
//	for cursor.HasNext() {
//		loan, err := cursor.Next()
//		if err != nil {
//			return err
//		}
//		fmt.Println(loan.DueDate)
//	}
//
// Two authentication protocols are supported, selected once at
// construction via Config.AuthProtocol: the legacy protocol, which
// returns a token in the X-Okapi-Token response header, and the rotating
// protocol, which returns a token with an explicit expiry in a response
// cookie. Tokens are shared across process instances through the cache
// backend (memory, NATS KV, or Redis) with last-write-wins semantics.
package okapi
