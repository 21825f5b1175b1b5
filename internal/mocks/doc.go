// Package mocks holds testify mocks for the ports interfaces, in the
// expecter style: m.EXPECT().Method(args...).Return(results...).
package mocks
