// Package preflight provides readiness checks for the narration service,
// local directories and external binaries that speechsync depends on.
//
// The CLI "speechsync doctor" command runs RunAll and CheckSystemDeps and
// renders the results; "speechsync follow" runs CheckTTS before loading a
// report so an unreachable service is reported up front.
package preflight
