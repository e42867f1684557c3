// Package stepsdk is the Go client for the StepGlobe backend.
//
// A Client covers the public endpoints and signs in:
//
//	c := stepsdk.NewClient("https://steps.example")
//	sess, res, err := c.SignInWithTelegram(ctx, widgetPayload)
//	if err != nil {
//		return err
//	}
//	if res.IsNew {
//		// open the profile dialog
//	}
//
// A Session carries the tokens, refreshes them before they expire and ends
// itself when the server answers session_invalid. Listeners registered with
// Client.OnSessionChange hear about every sign-in, refresh and sign-out.
//
// Every non-2xx answer is an *APIError and matches the predefined errors
// with errors.Is:
//
//	if errors.Is(err, stepsdk.ErrAccountPending) {
//		// wait for an admin
//	}
package stepsdk
