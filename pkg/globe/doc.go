// Package globe turns the participant roster into frames for a globe
// renderer.
//
// A Reconciler polls a RosterSource, projects every participant with
// geo.Projection and hands one complete Frame per pass to a Surface. Timer
// passes whose roster is unchanged are skipped; on-demand passes always
// render and move the camera to the viewer.
package globe
