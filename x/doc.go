/*
Package x contains the interfaces shared by the extensions.

Extensions are never hard wired to one authentication scheme: they accept
an Authenticator and ask it which principals approved the current request.
*/
package x
