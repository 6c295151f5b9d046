package log

import "log/slog"

func StateID[T ~string](id T) slog.Attr {
	return slog.String("state_id", string(id))
}

func Path[T ~string](path T) slog.Attr {
	return slog.String("path", string(path))
}

func Partition(partition string) slog.Attr {
	return slog.String("partition", partition)
}

func Destination(dest string) slog.Attr {
	return slog.String("destination", dest)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
