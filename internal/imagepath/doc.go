// Package imagepath computes canonical public paths for portfolio images.
//
// Every image of a project lives at /images/portfolio/<category>/<file>.
// References written by authors come in many shapes (bare file names,
// relative paths, paths into the public directory, paths into another
// category) and Normalize maps all of them onto that form.
package imagepath
