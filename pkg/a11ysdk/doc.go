/*
Package a11ysdk is a client for the accessibility platform API.

# Overview

SDKClient wraps the four account operations the platform exposes:

	client := a11ysdk.NewSDKClient("http://localhost:5000/api")

	// Create an account (does not log in)
	_, err := client.Register(ctx, a11ysdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})

	// Log in; the token is returned, not kept
	login, err := client.Login(ctx, a11ysdk.Credentials{Username: "alice", Password: "secret1"})

	// Authenticated calls take the token explicitly
	user, err := client.FetchCurrentUser(ctx, login.AccessToken)
	_, err = client.UpdateSettings(ctx, login.AccessToken, map[string]any{"largeText": true})

The client is stateless. It reads no storage, keeps no token and never
retries. Token ownership lives in the caller (see internal/session).

# Error Handling

Every failure is an *APIError. Match on the kind with errors.Is:

	_, err := client.Login(ctx, creds)
	switch {
	case errors.Is(err, a11ysdk.ErrNetwork):
		// server unreachable, timed out or cancelled
	case errors.Is(err, a11ysdk.ErrLoginFailed):
		fmt.Println(err) // server message, e.g. "Invalid credentials"
	}

The message is the one the server returned when it sent one, otherwise a
fixed default per operation ("Login failed", "Failed to get user data", ...).

# Validation

RegisterRequest.Validate mirrors the sign-up form checks (required fields,
password length, password confirmation, known role) so callers can reject
bad input before a round trip.
*/
package a11ysdk
