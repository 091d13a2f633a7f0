package constant

// AsciiArtLogo is the application's banner.
const AsciiArtLogo = `
 ┬─┐┌─┐┌─┐┬  ┌─┐┌─┐┌─┐┌┬┐
 ├┬┘├┤ ├┤ │  ├┤ ├┤ ├┤  ││
 ┴└─└─┘└─┘┴─┘└  └─┘└─┘─┴┘`
